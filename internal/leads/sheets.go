package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

const sheetsScope = "https://www.googleapis.com/auth/spreadsheets"

// SheetsClient appends rows through the Sheets REST API using a service
// account token source.
type SheetsClient struct {
	httpClient *http.Client
	baseAPI    string
	sheetID    string
	sheetRange string
}

// NewSheetsClient builds a JWT-authenticated client. privateKey may carry
// literal "\n" sequences, as it usually does when stored in an env var.
func NewSheetsClient(ctx context.Context, clientEmail, privateKey, sheetID, sheetRange string) *SheetsClient {
	conf := &jwt.Config{
		Email:      clientEmail,
		PrivateKey: []byte(strings.ReplaceAll(privateKey, `\n`, "\n")),
		Scopes:     []string{sheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	hc := conf.Client(ctx)
	hc.Timeout = 20 * time.Second
	return newSheetsClient(hc, "https://sheets.googleapis.com", sheetID, sheetRange)
}

func newSheetsClient(hc *http.Client, baseAPI, sheetID, sheetRange string) *SheetsClient {
	return &SheetsClient{
		httpClient: hc,
		baseAPI:    strings.TrimRight(baseAPI, "/"),
		sheetID:    sheetID,
		sheetRange: sheetRange,
	}
}

type appendValuesRequest struct {
	Values [][]string `json:"values"`
}

func (c *SheetsClient) AppendRow(ctx context.Context, row []string) error {
	path := fmt.Sprintf("/v4/spreadsheets/%s/values/%s:append", url.PathEscape(c.sheetID), url.PathEscape(c.sheetRange))
	q := url.Values{}
	q.Set("valueInputOption", "RAW")
	q.Set("insertDataOption", "INSERT_ROWS")

	body, err := json.Marshal(appendValuesRequest{Values: [][]string{row}})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseAPI+path+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("sheets append failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
