package vending

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/apkcrawl/apkcrawl-cli/internal/errors"
	"github.com/apkcrawl/apkcrawl-cli/pkg/device"
	"github.com/apkcrawl/apkcrawl-cli/pkg/models"
	"github.com/apkcrawl/apkcrawl-cli/pkg/utils"
	"github.com/apkcrawl/apkcrawl-cli/pkg/vending/wire"
)

// LoginState tags the session's position in the login state machine.
type LoginState int

const (
	StateLoggedOut LoginState = iota
	StateTokenReuse
	StatePasswordFlow
	StateLoggedIn
	StateAuthenticationFailed
)

// String returns a readable state name.
func (s LoginState) String() string {
	switch s {
	case StateLoggedOut:
		return "logged out"
	case StateTokenReuse:
		return "token reuse"
	case StatePasswordFlow:
		return "password flow"
	case StateLoggedIn:
		return "logged in"
	case StateAuthenticationFailed:
		return "authentication failed"
	default:
		return "unknown"
	}
}

// Session is the mutable per-client login state. Only the owning
// Client mutates it; it must not be shared across goroutines.
type Session struct {
	State                   LoginState
	AndroidID               uint64
	AuthToken               string
	DeviceConfigToken       string
	CheckinConsistencyToken string
}

// ClientOptions configures a store client.
type ClientOptions struct {
	Device         *device.Identity
	Credential     *models.Credential
	CredentialPath string
	Locale         string
	Transport      *Transport
	Logger         utils.Logger

	// BaseURL and AuthURL override the production endpoints, used by
	// tests to point at a scripted server.
	BaseURL string
	AuthURL string
}

// Client talks to the store backend on behalf of one emulated device.
type Client struct {
	transport *Transport
	device    *device.Identity
	cred      *models.Credential
	credPath  string
	locale    string
	log       utils.Logger

	baseURL string
	authURL string

	session Session
}

// NewClient validates the options and builds a client in the logged
// out state.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Device == nil {
		return nil, errors.NewConfiguration("no device configured", nil)
	}
	if opts.Credential == nil {
		return nil, errors.NewConfiguration("no credential configured", nil)
	}
	if err := opts.Credential.Validate(); err != nil {
		return nil, errors.NewConfiguration("invalid credential", err)
	}
	if opts.Transport == nil {
		return nil, errors.NewConfiguration("no transport configured", nil)
	}

	log := opts.Logger
	if log == nil {
		log = utils.GetGlobalLogger()
	}
	locale := opts.Locale
	if locale == "" {
		locale = "en_US"
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = ServerURL
	}
	authURL := opts.AuthURL
	if authURL == "" {
		authURL = AuthURL
	}

	c := &Client{
		transport: opts.Transport,
		device:    opts.Device,
		cred:      opts.Credential,
		credPath:  opts.CredentialPath,
		locale:    locale,
		log:       log,
		baseURL:   baseURL,
		authURL:   authURL,
	}
	c.session.AndroidID = opts.Credential.AndroidID
	c.session.AuthToken = opts.Credential.AuthToken
	return c, nil
}

// Session returns a copy of the current session state.
func (c *Client) Session() Session {
	return c.session
}

// Store names the origin this client serves.
func (c *Client) Store() models.Store {
	return models.StorePlay
}

// Login brings the session to the logged in state. A stored device
// identifier and token are probed first; on an explicit authentication
// error they are invalidated and persisted before falling back to the
// full password flow.
func (c *Client) Login(ctx context.Context) error {
	if c.session.State == StateLoggedIn {
		return nil
	}

	if c.cred.HasToken() {
		c.session.State = StateTokenReuse
		err := c.loginViaToken(ctx)
		if err == nil {
			c.session.State = StateLoggedIn
			c.log.Info("successfully logged in via token")
			return nil
		}
		if !errors.Is(err, errors.ErrAuthentication) {
			c.session.State = StateLoggedOut
			return err
		}
		c.log.Warn("login via token failed, removing invalid tokens: %v", err)
		c.invalidateCredential()
	}

	if err := c.loginViaPassword(ctx); err != nil {
		if errors.Is(err, errors.ErrAuthentication) {
			c.session.State = StateAuthenticationFailed
		} else {
			c.session.State = StateLoggedOut
		}
		return err
	}
	c.session.State = StateLoggedIn
	c.log.Info("successfully logged in via password")
	return nil
}

// loginViaToken probes the landing page with the stored token. Any
// server-reported error means the token is no longer valid.
func (c *Client) loginViaToken(ctx context.Context) error {
	query := url.Values{}
	query.Set("c", "3")
	query.Set("nocache_isui", "true")

	wrapper, err := c.getWrapper(ctx, c.baseURL+"fdfe/homeV2", query)
	if err != nil {
		return err
	}
	if msg := wrapper.ErrorMessage(); msg != "" {
		return errors.NewAuthentication(msg)
	}
	return nil
}

// loginViaPassword runs the fixed password flow sequence. Any failure
// leaves the session short of logged in; no partial state survives.
func (c *Client) loginViaPassword(ctx context.Context) error {
	c.session.State = StatePasswordFlow

	authString, err := EncryptCredential(c.cred.Mail, c.cred.Password)
	if err != nil {
		return errors.NewConfiguration("failed to encrypt credential", err)
	}

	ac2dmToken, err := c.obtainAuthToken(ctx, authString)
	if err != nil {
		return err
	}
	if err := c.checkin(ctx, ac2dmToken); err != nil {
		return err
	}
	if err := c.authorize(ctx, authString); err != nil {
		return err
	}
	if err := c.uploadDeviceConfig(ctx); err != nil {
		return err
	}
	return c.persistCredential()
}

// obtainAuthToken retrieves the device-registration token that seeds
// the checkin step.
func (c *Client) obtainAuthToken(ctx context.Context, authString string) (string, error) {
	c.log.Debug("retrieving registration token")
	params, headers := c.loginParameters(authString)
	headers.Set("app", "com.google.android.gms")

	resp, err := c.transport.PostForm(ctx, c.authURL, headers, params)
	if err != nil {
		return "", err
	}
	return parseTokenResponse(resp.Body, "auth")
}

// checkin registers the device identity and returns with the session
// carrying the assigned identifier and consistency token. The first
// request carries identifier 0 and no security token; the second
// resubmits with the assigned values plus the account cookies. The
// second response is not needed for correctness.
func (c *Client) checkin(ctx context.Context, ac2dmToken string) error {
	headers := c.baseHeaders()

	request := &wire.AndroidCheckinRequest{
		Checkin:             c.device.CheckinProto(),
		Locale:              c.locale,
		TimeZone:            "UTC",
		Version:             3,
		DeviceConfiguration: c.device.ConfigProto(),
	}

	resp, err := c.transport.Post(ctx, c.baseURL+"checkin", headers,
		"application/x-protobuf", request.Marshal())
	if err != nil {
		return err
	}
	var checkinResp wire.AndroidCheckinResponse
	if err := checkinResp.Unmarshal(resp.Body); err != nil {
		return errors.NewTransport("failed to decode checkin response", err)
	}
	if checkinResp.AndroidID == 0 {
		return errors.NewAuthentication("checkin did not assign a device identifier")
	}

	c.session.CheckinConsistencyToken = checkinResp.DeviceCheckinConsistencyToken

	request.ID = int64(checkinResp.AndroidID)
	request.SecurityToken = checkinResp.SecurityToken
	request.AccountCookie = []string{
		fmt.Sprintf("[%s]", c.cred.Mail),
		ac2dmToken,
	}
	if _, err := c.transport.Post(ctx, c.baseURL+"checkin", headers,
		"application/x-protobuf", request.Marshal()); err != nil {
		return err
	}

	c.session.AndroidID = checkinResp.AndroidID
	c.log.Info("successfully checked in, got device id %x", checkinResp.AndroidID)
	return nil
}

// authorize exchanges the credential for the store bearer token. The
// first post obtains a master token; the second trades it for the
// bearer token with the email and encrypted password removed.
func (c *Client) authorize(ctx context.Context, authString string) error {
	params, headers := c.loginParameters(authString)
	params.Set("app", "com.android.vending")
	params.Set("service", "androidmarket")
	headers.Set("app", "com.android.vending")

	resp, err := c.transport.PostForm(ctx, c.authURL, headers, params)
	if err != nil {
		return err
	}
	masterToken, err := parseTokenResponse(resp.Body, "token")
	if err != nil {
		return err
	}

	params.Set("Token", masterToken)
	params.Set("check_email", "1")
	params.Set("token_request_options", "CAA4AQ==")
	params.Set("system_partition", "1")
	params.Set("_opt_is_called_from_account_manager", "1")
	params.Del("Email")
	params.Del("EncryptedPasswd")

	resp, err = c.transport.PostForm(ctx, c.authURL, headers, params)
	if err != nil {
		return err
	}
	bearer, err := parseTokenResponse(resp.Body, "auth")
	if err != nil {
		return err
	}
	c.session.AuthToken = bearer
	c.log.Info("successfully authorized the device with the store")
	return nil
}

// uploadDeviceConfig submits the full device descriptor. The response
// token is stored for later headers; its absence is tolerated.
func (c *Client) uploadDeviceConfig(ctx context.Context) error {
	c.log.Debug("uploading device configuration for %s", c.device.UserReadableName)
	upload := &wire.UploadDeviceConfigRequest{
		DeviceConfiguration: c.device.ConfigProto(),
	}

	headers := c.baseHeaders()
	headers.Set("X-DFE-Enabled-Experiments", "cl:billing.select_add_instrument_by_default")
	headers.Set("X-DFE-Unsupported-Experiments",
		"nocache:billing.use_charging_poller,market_emails,buyer_currency,prod_baseline,"+
			"checkin.set_asset_paid_app_field,shekel_test,content_ratings,buyer_currency_in_app,"+
			"nocache:encrypted_apk,recent_changes")
	headers.Set("X-DFE-SmallestScreenWidthDp", "320")
	headers.Set("X-DFE-Filter-Level", "3")

	resp, err := c.transport.Post(ctx, c.baseURL+"fdfe/uploadDeviceConfig", headers,
		"application/x-protobuf", upload.Marshal())
	if err != nil {
		return err
	}
	var wrapper wire.ResponseWrapper
	if err := wrapper.Unmarshal(resp.Body); err != nil {
		return errors.NewTransport("failed to decode device config response", err)
	}
	if wrapper.Payload != nil && wrapper.Payload.UploadDeviceConfigResponse != nil {
		c.session.DeviceConfigToken = wrapper.Payload.UploadDeviceConfigResponse.UploadDeviceConfigToken
	}
	return nil
}

// persistCredential writes the assigned identifier and bearer token
// back so future sessions can skip the password flow.
func (c *Client) persistCredential() error {
	c.cred.AndroidID = c.session.AndroidID
	c.cred.AuthToken = c.session.AuthToken
	if c.credPath == "" {
		return nil
	}
	c.log.Debug("writing tokens to credential file %q", c.credPath)
	return models.SaveCredential(c.credPath, c.cred)
}

// invalidateCredential clears the identifier and token together and
// persists the cleared credential.
func (c *Client) invalidateCredential() {
	c.cred.Invalidate()
	c.session.AndroidID = 0
	c.session.AuthToken = ""
	if c.credPath != "" {
		if err := models.SaveCredential(c.credPath, c.cred); err != nil {
			c.log.Error("failed to persist cleared credential: %v", err)
		}
	}
}

// getWrapper performs an authenticated GET and decodes the response
// envelope.
func (c *Client) getWrapper(ctx context.Context, rawURL string, query url.Values) (*wire.ResponseWrapper, error) {
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}
	resp, err := c.transport.Get(ctx, rawURL, c.baseHeaders())
	if err != nil {
		return nil, err
	}
	var wrapper wire.ResponseWrapper
	if err := wrapper.Unmarshal(resp.Body); err != nil {
		return nil, errors.NewTransport("failed to decode response envelope", err)
	}
	return &wrapper, nil
}

// parseTokenResponse extracts a named token from a key=value-per-line
// auth response. An error line is a fatal authentication error, not
// merely a missing token.
func parseTokenResponse(body []byte, name string) (string, error) {
	for _, line := range strings.Fields(string(body)) {
		k, v, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(k)) {
		case name:
			return v, nil
		case "error":
			return "", errors.NewAuthentication(v)
		}
	}
	return "", errors.NewAuthentication("the server did not provide a token")
}
