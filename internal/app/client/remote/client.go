package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slog"

	"monthledger/internal/app/client/config"
	"monthledger/internal/domain/ledger"
	"monthledger/internal/domain/session"
	"monthledger/internal/domain/user"
)

// Client — HTTP-клиент удаленного сервиса данных. Все аутентифицированные
// вызовы несут токен как bearer; каждый вызов ограничен собственным таймаутом.
type Client struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	token     string
	timeout   time.Duration
	userAgent string
}

func NewClient(cfg *config.Config, log *slog.Logger) (*Client, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	// Определяем протокол
	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		client:    client,
		log:       log.With("component", "remote_client"),
		baseURL:   scheme + cfg.ServerAddress,
		timeout:   timeout,
		userAgent: "MonthLedger-Client/1.0",
	}, nil
}

// SetToken устанавливает токен аутентификации
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token возвращает текущий токен
func (c *Client) Token() string {
	return c.token
}

// Probe проверяет доступность сервера
func (c *Client) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: статус %d", ErrUnavailable, resp.StatusCode)
	}

	return nil
}

// Register регистрирует пользователя и возвращает учетные данные сессии
func (c *Client) Register(ctx context.Context, login, secret string) (string, user.Identity, error) {
	var out authResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", authRequest{
		Login:  login,
		Secret: secret,
	}, &out)
	if err != nil {
		return "", user.Identity{}, err
	}

	return out.Credential, out.Identity, nil
}

// Login аутентифицирует пользователя. Любой отказ сервера в аутентификации
// сводится к общей ошибке "invalid credentials".
func (c *Client) Login(ctx context.Context, login, secret string) (string, user.Identity, error) {
	var out authResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", authRequest{
		Login:  login,
		Secret: secret,
	}, &out)
	if err != nil {
		if IsAuthError(err) {
			return "", user.Identity{}, user.ErrInvalidAuth
		}
		return "", user.Identity{}, err
	}

	return out.Credential, out.Identity, nil
}

// ValidateCredential проверяет сохраненный токен одним обращением к серверу
func (c *Client) ValidateCredential(ctx context.Context) (user.Identity, error) {
	var out sessionResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/session", nil, &out); err != nil {
		return user.Identity{}, err
	}

	return out.Identity, nil
}

// ListRecords возвращает все записи пользователя
func (c *Client) ListRecords(ctx context.Context) ([]ledger.Record, error) {
	var out listResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/ledger", nil, &out); err != nil {
		return nil, err
	}

	if out.Records == nil {
		out.Records = []ledger.Record{}
	}
	return out.Records, nil
}

// UpsertRecord создает или полностью заменяет запись на сервере.
// Операция идемпотентна по (пользователь, record_id).
func (c *Client) UpsertRecord(ctx context.Context, rec *ledger.Record) (string, error) {
	var out upsertResponse
	path := "/api/ledger/" + url.PathEscape(rec.RecordID)
	if err := c.doJSON(ctx, http.MethodPut, path, rec, &out); err != nil {
		return "", err
	}

	return out.RecordID, nil
}

// DeleteRecord удаляет запись на сервере. Отсутствие записи — успех:
// целевое состояние уже достигнуто.
func (c *Client) DeleteRecord(ctx context.Context, recordID string) error {
	var out statusResponse
	path := "/api/ledger/" + url.PathEscape(recordID)
	err := c.doJSON(ctx, http.MethodDelete, path, nil, &out)
	if err != nil && isNotFound(err) {
		return nil
	}
	return err
}

type notFoundError struct{ detail string }

func (e *notFoundError) Error() string { return "not found: " + e.detail }

func isNotFound(err error) bool {
	var nf *notFoundError
	return errors.As(err, &nf)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, result interface{}) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug("Отправка запроса", "method", method, "url", req.URL.String())

	resp, err := c.client.Do(req)
	if err != nil {
		// Таймаут и обрыв соединения неотличимы для вызывающего кода:
		// оба означают "сервер недоступен"
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: чтение ответа: %v", ErrUnavailable, err)
	}

	c.log.Debug("Получен ответ", "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		return c.mapError(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}

// mapError переводит HTTP-статусы в ошибки доменного уровня
func (c *Client) mapError(status int, body []byte) error {
	detail := errorDetail(body)

	switch {
	case status == http.StatusUnauthorized:
		if c.token != "" && session.IsExpired(c.token, time.Now()) {
			return ErrSessionExpired
		}
		return ErrUnauthenticated
	case status == http.StatusForbidden:
		return ErrNotAuthorized
	case status == http.StatusNotFound:
		return &notFoundError{detail: detail}
	case status == http.StatusConflict:
		// Текст сервера (занятый логин) отдается вызывающему как есть
		return fmt.Errorf("%w: %s", user.ErrDuplicate, detail)
	case status >= 500:
		return fmt.Errorf("%w: статус %d", ErrUnavailable, status)
	}

	if detail != "" {
		return fmt.Errorf("ошибка сервера: %s", detail)
	}
	return fmt.Errorf("ошибка сервера: статус %d", status)
}

// errorDetail достает сообщение из тела ошибки: huma отдает problem+json
// с полем detail, более старые обработчики — {"error": ...}
func errorDetail(body []byte) string {
	var errResp struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	if errResp.Detail != "" {
		return errResp.Detail
	}
	return errResp.Error
}
