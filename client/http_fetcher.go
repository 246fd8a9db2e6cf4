package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"messenger/domain"
	"messenger/errors"
)

// HTTPFetcher talks to the messenger REST API. It implements Fetcher
// for the polling read path and also carries the two mutations a
// client issues on user action.
type HTTPFetcher struct {
	baseURL string
	http    *http.Client
}

func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) FetchPeople(ctx context.Context, roomID domain.RoomID) ([]string, error) {
	var people []string
	err := f.getJSON(ctx, fmt.Sprintf("%s/chats/people?chatId=%d", f.baseURL, roomID), &people)
	return people, err
}

func (f *HTTPFetcher) FetchMessages(ctx context.Context, roomID domain.RoomID) ([]domain.Message, error) {
	var messages []domain.Message
	err := f.getJSON(ctx, fmt.Sprintf("%s/messages/get?chatId=%d", f.baseURL, roomID), &messages)
	return messages, err
}

// Attend joins the room under the given nickname.
func (f *HTTPFetcher) Attend(ctx context.Context, roomID domain.RoomID, person string) error {
	url := fmt.Sprintf("%s/chats/attend?chatId=%d", f.baseURL, roomID)
	return f.postJSON(ctx, url, map[string]string{"person": person})
}

// Post publishes a message stamped with the client clock, matching
// the original front-end which stamps at send time.
func (f *HTTPFetcher) Post(ctx context.Context, roomID domain.RoomID, author, content string) error {
	url := fmt.Sprintf("%s/messages/post?chatId=%d", f.baseURL, roomID)
	return f.postJSON(ctx, url, map[string]any{
		"author":   author,
		"content":  content,
		"timecode": domain.NowMillis(),
	})
}

func (f *HTTPFetcher) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (f *HTTPFetcher) postJSON(ctx context.Context, url string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusForbidden:
		return errors.ErrNotMember
	default:
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s: unexpected status %d: %s", url, resp.StatusCode, raw)
	}
}
