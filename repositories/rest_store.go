package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"

	"github.com/Dosada05/coforge-registration/models"
)

const (
	maxErrorBody = 64 * 1024
	restSchema   = "public"
)

// RESTStoreConfig - параметры подключения к PostgREST (Supabase).
type RESTStoreConfig struct {
	URL       string
	AccessKey string
	Timeout   time.Duration
	// Transport overrides http.DefaultTransport.
	Transport http.RoundTripper
}

type restStore struct {
	baseURL   string
	accessKey string
	timeout   time.Duration
	transport http.RoundTripper
}

// NewRESTStore never fails: missing secrets produce a store whose Ready() is false.
func NewRESTStore(cfg RESTStoreConfig) DataStore {
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &restStore{
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		accessKey: strings.TrimSpace(cfg.AccessKey),
		timeout:   cfg.Timeout,
		transport: transport,
	}
}

func (s *restStore) Ready() bool {
	return s.baseURL != "" && s.accessKey != ""
}

func (s *restStore) Insert(ctx context.Context, table string, rec *models.Registration) error {
	if !s.Ready() {
		return ErrStoreNotReady
	}
	if table == "" {
		return ErrInvalidTable
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// postgrest.Client хранит ClientError в себе, поэтому клиент создается на каждую вставку.
	rt := &storeTransport{ctx: ctx, base: s.transport}
	client := postgrest.NewClient(s.baseURL+"/rest/v1", restSchema, map[string]string{
		"apikey":        s.accessKey,
		"Authorization": "Bearer " + s.accessKey,
	})
	client.Transport.Parent = rt

	_, _, err := client.From(table).
		Insert([]*models.Registration{rec}, false, "", "minimal", "").
		Execute()
	if err != nil {
		if rt.rejected != nil {
			return rt.rejected
		}
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// storeTransport binds requests to the caller's context and keeps the raw error
// body: postgrest-go reduces it to "(code) message" and loses details and hint.
type storeTransport struct {
	ctx      context.Context
	base     http.RoundTripper
	rejected *StoreError
}

func (t *storeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req.WithContext(t.ctx))
	if err != nil || resp.StatusCode < http.StatusBadRequest {
		return resp, err
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	t.rejected = decodeStoreError(resp.StatusCode, raw)
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	return resp, nil
}

// decodeStoreError разбирает тело ошибки PostgREST: {"code","message","details","hint"}.
func decodeStoreError(status int, raw []byte) *StoreError {
	storeErr := &StoreError{StatusCode: status}
	if len(bytes.TrimSpace(raw)) == 0 {
		return storeErr
	}

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
		// Gateway errors use error/error_description instead.
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		storeErr.Message = strings.TrimSpace(string(raw))
		return storeErr
	}

	storeErr.Code = payload.Code
	storeErr.Message = payload.Message
	storeErr.Details = payload.Details
	storeErr.Hint = payload.Hint
	if storeErr.Message == "" {
		storeErr.Message = payload.Error
		if storeErr.Details == "" {
			storeErr.Details = payload.ErrorDescription
		}
	}
	return storeErr
}
