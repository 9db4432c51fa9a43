package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/folio/backend/internal/model"
)

// RestSubmissionRepository writes submissions to a hosted Postgres through
// its PostgREST endpoint (Supabase's /rest/v1 API) using a service key.
type RestSubmissionRepository struct {
	baseURL    string
	serviceKey string
	table      string
	httpClient *http.Client
}

// NewRestSubmissionRepository creates a repository for table on the project at baseURL.
func NewRestSubmissionRepository(baseURL, serviceKey, table string) *RestSubmissionRepository {
	if table == "" {
		table = SubmissionTable
	}
	return &RestSubmissionRepository{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		table:      table,
		httpClient: &http.Client{},
	}
}

var _ SubmissionRepository = (*RestSubmissionRepository)(nil)

// restRow mirrors a returned row. PostgREST renders bigint ids as JSON
// numbers and uuid ids as strings, so id is decoded separately.
type restRow struct {
	model.Submission
	ID json.RawMessage `json:"id"`
}

func (row restRow) submission() *model.Submission {
	s := row.Submission
	s.ID = rawID(row.ID)
	return &s
}

func rawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// Insert posts sub as a single row and reads back its generated id.
func (r *RestSubmissionRepository) Insert(ctx context.Context, sub *model.Submission) error {
	row := *sub
	row.ID = ""
	body, err := json.Marshal(row)
	if err != nil {
		return err
	}

	req, err := r.newRequest(ctx, http.MethodPost, url.Values{"select": {"id"}}, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	req.Header.Set("Accept", "application/vnd.pgrst.object+json")

	var out restRow
	if err := r.do(req, &out); err != nil {
		return fmt.Errorf("insert %s: %w", r.table, err)
	}
	sub.ID = rawID(out.ID)
	if sub.ID == "" {
		return fmt.Errorf("insert %s: empty id in response", r.table)
	}
	return nil
}

func (r *RestSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	q := url.Values{"select": {"*"}, "id": {"eq." + id}}
	req, err := r.newRequest(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, err
	}

	var rows []restRow
	if err := r.do(req, &rows); err != nil {
		return nil, fmt.Errorf("select %s: %w", r.table, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0].submission(), nil
}

func (r *RestSubmissionRepository) Delete(ctx context.Context, id string) error {
	q := url.Values{"select": {"id"}, "id": {"eq." + id}}
	req, err := r.newRequest(ctx, http.MethodDelete, q, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=representation")

	var rows []restRow
	if err := r.do(req, &rows); err != nil {
		return fmt.Errorf("delete %s: %w", r.table, err)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks that the table is reachable with the configured key.
func (r *RestSubmissionRepository) Ping(ctx context.Context) error {
	req, err := r.newRequest(ctx, http.MethodGet, url.Values{"select": {"id"}, "limit": {"1"}}, nil)
	if err != nil {
		return err
	}
	return r.do(req, nil)
}

func (r *RestSubmissionRepository) Close() error {
	r.httpClient.CloseIdleConnections()
	return nil
}

func (r *RestSubmissionRepository) newRequest(ctx context.Context, method string, q url.Values, body io.Reader) (*http.Request, error) {
	u := r.baseURL + "/rest/v1/" + url.PathEscape(r.table)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", r.serviceKey)
	req.Header.Set("Authorization", "Bearer "+r.serviceKey)
	return req, nil
}

// do sends req and decodes a 2xx body into out (when non-nil).
// Error responses are summarized from PostgREST's {code, message} body.
func (r *RestSubmissionRepository) do(req *http.Request, out any) error {
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)
		return fmt.Errorf("status %d: %s %s", resp.StatusCode, apiErr.Code, apiErr.Message)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
