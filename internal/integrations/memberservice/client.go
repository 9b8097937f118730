package memberservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client клиент справочника сотрудников (MemberService)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента MemberService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetMember получает сотрудника по идентификатору
func (c *Client) GetMember(ctx context.Context, memberID string) (*Member, error) {
	endpoint := fmt.Sprintf("%s/internal/members/%s", c.baseURL, url.PathEscape(memberID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("MemberService request failed for member_id=%s: %v", memberID, err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrMemberNotFound
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid member ID format", ErrInvalidResponse)
	default:
		message := readErrorMessage(resp.Body)
		if resp.StatusCode >= http.StatusInternalServerError {
			c.log.Error("MemberService returned status %d for member_id=%s: %s", resp.StatusCode, memberID, message)
			return nil, fmt.Errorf("%w: status code %d: %s", ErrUnavailable, resp.StatusCode, message)
		}
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, message)
	}

	var member Member
	if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &member, nil
}

// readErrorMessage достаёт message из ErrorResponse, иначе возвращает тело как есть
func readErrorMessage(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 4096))

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	return string(body)
}
