package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/efraespada/my-verisure/internal/config"
	"github.com/efraespada/my-verisure/internal/domain/alarm"
	"github.com/efraespada/my-verisure/internal/logger"
)

// GraphQL documents, modeled on the operations of the native app.
const (
	loginMutation = `mutation mkLoginToken($user: String!, $password: String!, $country: String!, $lang: String!, $idDevice: String, $idDeviceIndigitall: String, $uuid: String, $deviceName: String, $deviceBrand: String, $deviceType: String, $deviceOsVersion: String, $deviceVersion: String) {
  xSLoginToken(user: $user, password: $password, country: $country, lang: $lang, idDevice: $idDevice, idDeviceIndigitall: $idDeviceIndigitall, uuid: $uuid, deviceName: $deviceName, deviceBrand: $deviceBrand, deviceType: $deviceType, deviceOsVersion: $deviceOsVersion, deviceVersion: $deviceVersion) {
    res
    msg
    hash
    refreshToken
  }
}`

	sendOTPMutation = `mutation mkSendOTP($recordId: Int!, $otpHash: String!) {
  xSSendOtp(recordId: $recordId, otpHash: $otpHash) {
    res
    msg
  }
}`

	validateOTPMutation = `mutation mkValidateOTP($otpHash: String!, $otpCode: String!) {
  xSValidateOtp(otpHash: $otpHash, otpCode: $otpCode) {
    res
    msg
    hash
    refreshToken
  }
}`

	installationsQuery = `query mkInstallationList {
  xSInstallations {
    installations {
      numinst
      alias
    }
  }
}`

	alarmStatusQuery = `query mkAlarmStatus($numinst: String!) {
  xSAlarmStatus(numinst: $numinst) {
    res
    msg
    internal {
      day { status }
      night { status }
      total { status }
    }
    external { status }
  }
}`

	armPanelMutation = `mutation mkArmPanel($numinst: String!, $request: String!) {
  xSArmPanel(numinst: $numinst, request: $request) {
    res
    msg
  }
}`

	disarmPanelMutation = `mutation mkDisarmPanel($numinst: String!, $request: String!, $code: String) {
  xSDisarmPanel(numinst: $numinst, request: $request, code: $code) {
    res
    msg
  }
}`
)

// API error codes signalled through the GraphQL errors array.
const (
	authCodeOTPRequired  = "10001"
	authCodeUnauthorized = "10010"
)

// GraphQLClient talks to the My Verisure GraphQL endpoint over HTTP.
type GraphQLClient struct {
	// httpClient performs the HTTP round trips.
	httpClient *http.Client
	// baseURL is the GraphQL endpoint.
	baseURL string
	// device is the identity block attached to login requests.
	device DeviceIdentity
	// country and lang are the locale values sent with login requests.
	country string
	lang    string

	// callTimeout is the default timeout for individual calls.
	callTimeout time.Duration

	// mu protects the bound auth token.
	mu sync.RWMutex
	// token is the auth hash sent with authenticated calls.
	token string
}

// Option configures client behaviour.
type Option func(*GraphQLClient)

// WithCallTimeout sets a default timeout for API calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *GraphQLClient) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *GraphQLClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLocale sets the country and language sent with login requests.
func WithLocale(country, lang string) Option {
	return func(c *GraphQLClient) {
		if country != "" {
			c.country = country
		}

		if lang != "" {
			c.lang = lang
		}
	}
}

// errBaseURLRequired is returned when the endpoint URL is missing.
var errBaseURLRequired = errors.New("base URL must be provided")

// NewClient creates a GraphQL client for the provided endpoint.
func NewClient(baseURL string, opts ...Option) (*GraphQLClient, error) {
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	client := &GraphQLClient{
		httpClient:  &http.Client{},
		baseURL:     baseURL,
		device:      newDeviceIdentity(),
		country:     config.DefaultCountry,
		lang:        config.DefaultLanguage,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// SetToken binds the auth token used for authenticated calls. An empty
// value releases the binding.
func (c *GraphQLClient) SetToken(hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = hash
}

// Close releases the underlying transport.
func (c *GraphQLClient) Close() error {
	if c == nil || c.httpClient == nil {
		return nil
	}

	c.httpClient.CloseIdleConnections()

	return nil
}

// resultEnvelope is the res/msg pair every operation carries.
type resultEnvelope struct {
	Res string `json:"res"`
	Msg string `json:"msg"`
}

// ok reports whether the API accepted the operation.
func (e resultEnvelope) ok() bool {
	return e.Res == "OK"
}

// authPayload is the token payload of login and OTP validation.
type authPayload struct {
	resultEnvelope
	Hash         string `json:"hash"`
	RefreshToken string `json:"refreshToken"`
}

// Login exchanges credentials for an auth token.
func (c *GraphQLClient) Login(ctx context.Context, user, password string) (*AuthResult, error) {
	variables := map[string]any{
		"user":               user,
		"password":           password,
		"country":            c.country,
		"lang":               c.lang,
		"idDevice":           c.device.IDDevice,
		"idDeviceIndigitall": c.device.IndigitallUUID,
		"uuid":               c.device.UUID,
		"deviceName":         c.device.Name,
		"deviceBrand":        c.device.Brand,
		"deviceType":         c.device.Type,
		"deviceOsVersion":    c.device.OSVersion,
		"deviceVersion":      c.device.Version,
	}

	var out struct {
		Login authPayload `json:"xSLoginToken"`
	}

	if err := c.post(ctx, loginMutation, variables, &out); err != nil {
		return nil, err
	}

	if !out.Login.ok() {
		logger.WarnKV(ctx, "Login rejected", "msg", out.Login.Msg)

		return nil, ErrInvalidCredentials
	}

	return &AuthResult{
		Hash:         out.Login.Hash,
		RefreshToken: out.Login.RefreshToken,
	}, nil
}

// SendOTP asks the provider to deliver a code to the chosen phone.
func (c *GraphQLClient) SendOTP(ctx context.Context, recordID int, otpHash string) error {
	variables := map[string]any{
		"recordId": recordID,
		"otpHash":  otpHash,
	}

	var out struct {
		Send resultEnvelope `json:"xSSendOtp"`
	}

	if err := c.post(ctx, sendOTPMutation, variables, &out); err != nil {
		return err
	}

	if !out.Send.ok() {
		return fmt.Errorf("send OTP: %s", out.Send.Msg)
	}

	return nil
}

// VerifyOTP exchanges a delivered code for an auth token.
func (c *GraphQLClient) VerifyOTP(ctx context.Context, otpHash, code string) (*AuthResult, error) {
	variables := map[string]any{
		"otpHash": otpHash,
		"otpCode": code,
	}

	var out struct {
		Validate authPayload `json:"xSValidateOtp"`
	}

	if err := c.post(ctx, validateOTPMutation, variables, &out); err != nil {
		return nil, err
	}

	if !out.Validate.ok() {
		logger.WarnKV(ctx, "OTP validation rejected", "msg", out.Validate.Msg)

		return nil, ErrInvalidOTP
	}

	return &AuthResult{
		Hash:         out.Validate.Hash,
		RefreshToken: out.Validate.RefreshToken,
	}, nil
}

// Installations lists the premises reachable with the bound token.
func (c *GraphQLClient) Installations(ctx context.Context) ([]Installation, error) {
	var out struct {
		Root struct {
			Installations []struct {
				Numinst string `json:"numinst"`
				Alias   string `json:"alias"`
			} `json:"installations"`
		} `json:"xSInstallations"`
	}

	if err := c.post(ctx, installationsQuery, nil, &out); err != nil {
		return nil, err
	}

	installations := make([]Installation, 0, len(out.Root.Installations))
	for _, inst := range out.Root.Installations {
		installations = append(installations, Installation{
			ID:    inst.Numinst,
			Alias: inst.Alias,
		})
	}

	return installations, nil
}

// zoneSection is one zone entry of the alarm status payload.
type zoneSection struct {
	Status bool `json:"status"`
}

// AlarmStatus fetches one complete zone snapshot for the installation.
// The snapshot is produced atomically: a failed fetch yields no partial data.
func (c *GraphQLClient) AlarmStatus(ctx context.Context, installationID string) (alarm.Snapshot, error) {
	variables := map[string]any{
		"numinst": installationID,
	}

	var out struct {
		Status struct {
			resultEnvelope
			Internal struct {
				Day   zoneSection `json:"day"`
				Night zoneSection `json:"night"`
				Total zoneSection `json:"total"`
			} `json:"internal"`
			External zoneSection `json:"external"`
		} `json:"xSAlarmStatus"`
	}

	if err := c.post(ctx, alarmStatusQuery, variables, &out); err != nil {
		return alarm.Snapshot{}, err
	}

	if !out.Status.ok() {
		return alarm.Snapshot{}, fmt.Errorf("alarm status: %s", out.Status.Msg)
	}

	return alarm.Snapshot{
		InternalDay:   out.Status.Internal.Day.Status,
		InternalNight: out.Status.Internal.Night.Status,
		InternalTotal: out.Status.Internal.Total.Status,
		External:      out.Status.External.Status,
	}, nil
}

// Arm issues one of the Request* arm verbs against the installation.
func (c *GraphQLClient) Arm(ctx context.Context, installationID, request string) error {
	variables := map[string]any{
		"numinst": installationID,
		"request": request,
	}

	var out struct {
		Arm resultEnvelope `json:"xSArmPanel"`
	}

	if err := c.post(ctx, armPanelMutation, variables, &out); err != nil {
		return err
	}

	if !out.Arm.ok() {
		return fmt.Errorf("arm panel: %s", out.Arm.Msg)
	}

	return nil
}

// Disarm disarms the installation using the panel code.
func (c *GraphQLClient) Disarm(ctx context.Context, installationID, code string) error {
	variables := map[string]any{
		"numinst": installationID,
		"request": RequestDisarm,
		"code":    code,
	}

	var out struct {
		Disarm resultEnvelope `json:"xSDisarmPanel"`
	}

	if err := c.post(ctx, disarmPanelMutation, variables, &out); err != nil {
		return err
	}

	if !out.Disarm.ok() {
		return fmt.Errorf("disarm panel: %s", out.Disarm.Msg)
	}

	return nil
}

// graphQLError is one entry of the GraphQL errors array. The API smuggles
// auth flow control through the data block.
type graphQLError struct {
	Message string `json:"message"`
	Data    struct {
		AuthCode string `json:"auth-code"`
		AuthType string `json:"auth-type"`
		OTPHash  string `json:"auth-otp-hash"`
		Phones   []struct {
			ID    int    `json:"id"`
			Phone string `json:"phone"`
		} `json:"auth-phones"`
	} `json:"data"`
}

// post performs one GraphQL round trip and decodes the data payload into out.
func (c *GraphQLClient) post(ctx context.Context, query string, variables map[string]any, out any) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if token != "" {
		req.Header.Set("Auth", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call API: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned HTTP %d", resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}

	if err = json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		return c.decodeError(envelope.Errors[0])
	}

	if out != nil && len(envelope.Data) > 0 {
		if err = json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
	}

	return nil
}

// decodeError maps an API error entry to a typed error.
func (c *GraphQLClient) decodeError(apiErr graphQLError) error {
	switch {
	case apiErr.Data.AuthCode == authCodeOTPRequired || apiErr.Data.AuthType == "OTP":
		phones := make([]Phone, 0, len(apiErr.Data.Phones))
		for _, p := range apiErr.Data.Phones {
			phones = append(phones, Phone{
				ID:     p.ID,
				Number: p.Phone,
			})
		}

		return &OTPRequiredError{
			Data: OTPData{
				Phones: phones,
				Hash:   apiErr.Data.OTPHash,
			},
		}
	case apiErr.Data.AuthCode == authCodeUnauthorized:
		return ErrUnauthorized
	default:
		return fmt.Errorf("API error: %s", apiErr.Message)
	}
}

// callContext returns a context with the client's call timeout if
// configured, otherwise a cancellable child context without a deadline.
func (c *GraphQLClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
