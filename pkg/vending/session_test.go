package vending

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/apkcrawl/apkcrawl-cli/internal/errors"
	"github.com/apkcrawl/apkcrawl-cli/pkg/device"
	"github.com/apkcrawl/apkcrawl-cli/pkg/models"
	"github.com/apkcrawl/apkcrawl-cli/pkg/utils"
	"github.com/apkcrawl/apkcrawl-cli/pkg/vending/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentity(t *testing.T) *device.Identity {
	t.Helper()
	identity, err := device.Load("bacon")
	require.NoError(t, err)
	return identity
}

func newTestClient(t *testing.T, srv *httptest.Server, cred *models.Credential, credPath string) *Client {
	t.Helper()
	client, err := NewClient(ClientOptions{
		Device:         testIdentity(t),
		Credential:     cred,
		CredentialPath: credPath,
		Transport:      NewTransport(models.NetworkConfig{}, utils.NewLogger(io.Discard, utils.LogLevelError)),
		Logger:         utils.NewLogger(io.Discard, utils.LogLevelError),
		BaseURL:        srv.URL + "/",
		AuthURL:        srv.URL + "/auth",
	})
	require.NoError(t, err)
	return client
}

// passwordFlowMux scripts the full backend side of a password login.
func passwordFlowMux(t *testing.T, androidID, securityToken uint64) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch {
		case r.PostForm.Get("service") == "ac2dm":
			assert.NotEmpty(t, r.PostForm.Get("EncryptedPasswd"))
			w.Write([]byte("Auth=ac2dm-token\n"))
		case r.PostForm.Get("Token") == "":
			assert.Equal(t, "androidmarket", r.PostForm.Get("service"))
			assert.Equal(t, "com.android.vending", r.PostForm.Get("app"))
			w.Write([]byte("Token=master-token\n"))
		default:
			assert.Equal(t, "master-token", r.PostForm.Get("Token"))
			assert.Empty(t, r.PostForm.Get("Email"))
			assert.Empty(t, r.PostForm.Get("EncryptedPasswd"))
			assert.Equal(t, "CAA4AQ==", r.PostForm.Get("token_request_options"))
			assert.Equal(t, "1", r.PostForm.Get("system_partition"))
			w.Write([]byte("Auth=bearer-token\n"))
		}
	})

	var checkins int
	mux.HandleFunc("/checkin", func(w http.ResponseWriter, r *http.Request) {
		checkins++
		assert.Equal(t, "application/x-protobuf", r.Header.Get("Content-Type"))
		if checkins == 1 {
			resp := wire.AndroidCheckinResponse{
				AndroidID:                     androidID,
				SecurityToken:                 securityToken,
				DeviceCheckinConsistencyToken: "consistency-token",
			}
			w.Write(resp.Marshal())
			return
		}
		// The second checkin response carries nothing we need.
		w.Write([]byte{})
	})

	mux.HandleFunc("/fdfe/uploadDeviceConfig", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-DFE-Enabled-Experiments"))
		assert.Equal(t, "320", r.Header.Get("X-DFE-SmallestScreenWidthDp"))
		wrapper := wire.ResponseWrapper{
			Payload: &wire.Payload{
				UploadDeviceConfigResponse: &wire.UploadDeviceConfigResponse{
					UploadDeviceConfigToken: "config-token",
				},
			},
		}
		w.Write(wrapper.Marshal())
	})

	return mux
}

func TestFreshPasswordLogin(t *testing.T) {
	srv := httptest.NewServer(passwordFlowMux(t, 0xD, 0x5))
	defer srv.Close()

	credPath := filepath.Join(t.TempDir(), "credentials.toml")
	cred := &models.Credential{Mail: "user@example.com", Password: "hunter2"}
	client := newTestClient(t, srv, cred, credPath)

	require.NoError(t, client.Login(context.Background()))

	session := client.Session()
	assert.Equal(t, StateLoggedIn, session.State)
	assert.Equal(t, uint64(0xD), session.AndroidID)
	assert.Equal(t, "bearer-token", session.AuthToken)
	assert.Equal(t, "config-token", session.DeviceConfigToken)
	assert.Equal(t, "consistency-token", session.CheckinConsistencyToken)

	// The identifier and bearer token must be persisted for reuse.
	saved, err := models.LoadCredential(credPath)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xD), saved.AndroidID)
	assert.Equal(t, "bearer-token", saved.AuthToken)
	assert.Equal(t, "user@example.com", saved.Mail)
}

func TestLoginViaTokenReuse(t *testing.T) {
	var authCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		authCalls++
	})
	mux.HandleFunc("/fdfe/homeV2", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GoogleLogin auth=stored-token", r.Header.Get("Authorization"))
		assert.Equal(t, "d", r.Header.Get("X-DFE-Device-Id"))
		w.Write((&wire.ResponseWrapper{}).Marshal())
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cred := &models.Credential{
		Mail: "user@example.com", Password: "hunter2",
		AndroidID: 0xD, AuthToken: "stored-token",
	}
	client := newTestClient(t, srv, cred, "")

	require.NoError(t, client.Login(context.Background()))
	assert.Equal(t, StateLoggedIn, client.Session().State)
	assert.Zero(t, authCalls, "token reuse must not touch the auth endpoint")
}

func TestInvalidTokenFallsBackToPasswordFlow(t *testing.T) {
	mux := passwordFlowMux(t, 0xE, 0x6)
	mux.HandleFunc("/fdfe/homeV2", func(w http.ResponseWriter, r *http.Request) {
		wrapper := wire.ResponseWrapper{
			Commands: &wire.ServerCommands{DisplayErrorMessage: "Your session has expired."},
		}
		w.Write(wrapper.Marshal())
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	credPath := filepath.Join(t.TempDir(), "credentials.toml")
	cred := &models.Credential{
		Mail: "user@example.com", Password: "hunter2",
		AndroidID: 0xD, AuthToken: "stale-token",
	}
	require.NoError(t, models.SaveCredential(credPath, cred))
	client := newTestClient(t, srv, cred, credPath)

	require.NoError(t, client.Login(context.Background()))

	session := client.Session()
	assert.Equal(t, StateLoggedIn, session.State)
	assert.Equal(t, uint64(0xE), session.AndroidID, "the stale identifier must be replaced")
	assert.Equal(t, "bearer-token", session.AuthToken)
}

func TestPasswordRejectionIsTerminal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Error=BadAuthentication\n"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cred := &models.Credential{Mail: "user@example.com", Password: "wrong"}
	client := newTestClient(t, srv, cred, "")

	err := client.Login(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAuthentication)
	assert.Equal(t, StateAuthenticationFailed, client.Session().State)
}

func TestTransportFailureLeavesSessionLoggedOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	cred := &models.Credential{Mail: "user@example.com", Password: "hunter2"}
	client := newTestClient(t, srv, cred, "")

	err := client.Login(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTransport)
	assert.Equal(t, StateLoggedOut, client.Session().State)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(ClientOptions{})
	assert.ErrorIs(t, err, errors.ErrConfiguration)

	_, err = NewClient(ClientOptions{
		Device:     testIdentity(t),
		Credential: &models.Credential{Mail: "user@example.com"},
	})
	assert.ErrorIs(t, err, errors.ErrConfiguration, "missing password must be rejected")
}

func TestParseTokenResponse(t *testing.T) {
	token, err := parseTokenResponse([]byte("SID=x\nAuth=the-token\n"), "auth")
	require.NoError(t, err)
	assert.Equal(t, "the-token", token)

	_, err = parseTokenResponse([]byte("Error=NeedsBrowser\n"), "auth")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAuthentication)
	assert.Contains(t, err.Error(), "NeedsBrowser")

	_, err = parseTokenResponse([]byte("SID=x\n"), "auth")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAuthentication)
}

func TestUserAgentComposition(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	defer srv.Close()
	cred := &models.Credential{Mail: "user@example.com", Password: "hunter2"}
	client := newTestClient(t, srv, cred, "")

	ua := client.userAgent()
	assert.Contains(t, ua, "Android-Finsky/")
	assert.Contains(t, ua, "api=3")
	assert.Contains(t, ua, "device=A0001")
	assert.Contains(t, ua, "supportedAbis=armeabi-v7a")
}
