// Package playlist cycles through a fixed list of canned replies. It backs
// demo mode on both sides of the relay.
package playlist

import "sync"

// DemoReplies is the default demo script. The seventh reply asks for contact
// details so demo sessions exercise the lead form.
var DemoReplies = []string{
	"I'm a demo version of the AI chatbot. In the real version, I would be powered by a hosted language model.",
	"This is a demonstration of the chat interface. The actual chatbot would provide more intelligent responses based on your questions.",
	"In the full version, I can help with customer support and collect lead information when appropriate.",
	"You can customize my appearance and behavior to match your brand and specific needs.",
	"To set up the full version, you'll need to configure the backend with your model API key and other credentials.",
	"The chatbot can be integrated into any website by adding a few lines of HTML, CSS, and JavaScript.",
	"Would you like to provide your name, email, and phone number for a demonstration of the lead collection feature?",
	"Thank you for trying out the demo! To implement the full version, follow the instructions in the README file.",
}

type Playlist struct {
	mu      sync.Mutex
	replies []string
	next    int
}

// New copies replies; an empty list falls back to DemoReplies.
func New(replies ...string) *Playlist {
	if len(replies) == 0 {
		replies = DemoReplies
	}
	return &Playlist{replies: append([]string(nil), replies...)}
}

// Next returns the current reply and advances, wrapping at the end.
func (p *Playlist) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	r := p.replies[p.next]
	p.next = (p.next + 1) % len(p.replies)
	return r
}
