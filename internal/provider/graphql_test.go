package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// graphQLHandler decodes the posted GraphQL request and replies with the
// configured body.
func graphQLHandler(t *testing.T, reply string, capture *map[string]any) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}

		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if capture != nil {
			vars := req.Variables
			if vars == nil {
				vars = make(map[string]any)
			}

			vars["__auth"] = r.Header.Get("Auth")
			vars["__query"] = req.Query
			*capture = vars
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}
}

// TestLogin_Success verifies the token pair is decoded from a successful login.
func TestLogin_Success(t *testing.T) {
	t.Parallel()

	reply := `{"data":{"xSLoginToken":{"res":"OK","msg":"","hash":"h1","refreshToken":"r1"}}}`

	var captured map[string]any

	srv := httptest.NewServer(graphQLHandler(t, reply, &captured))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	auth, err := client.Login(context.Background(), "user", "pass")
	require.NoError(t, err)
	require.Equal(t, "h1", auth.Hash)
	require.Equal(t, "r1", auth.RefreshToken)

	// Device identity travels with the login.
	require.NotEmpty(t, captured["idDevice"])
	require.NotEmpty(t, captured["uuid"])
	require.Equal(t, "user", captured["user"])
}

// TestLogin_Rejected maps a KO result to ErrInvalidCredentials.
func TestLogin_Rejected(t *testing.T) {
	t.Parallel()

	reply := `{"data":{"xSLoginToken":{"res":"KO","msg":"Invalid user or password"}}}`

	srv := httptest.NewServer(graphQLHandler(t, reply, nil))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "user", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

// TestLogin_OTPRequired decodes the challenge smuggled through the GraphQL
// errors array.
func TestLogin_OTPRequired(t *testing.T) {
	t.Parallel()

	reply := `{"errors":[{"message":"OTP required","data":{"auth-code":"10001","auth-type":"OTP","auth-otp-hash":"otp-hash-1","auth-phones":[{"id":0,"phone":"**34"},{"id":1,"phone":"**77"}]}}]}`

	srv := httptest.NewServer(graphQLHandler(t, reply, nil))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "user", "pass")

	var otpErr *OTPRequiredError
	require.ErrorAs(t, err, &otpErr)
	require.Equal(t, "otp-hash-1", otpErr.Data.Hash)
	require.Len(t, otpErr.Data.Phones, 2)
	require.Equal(t, 1, otpErr.Data.Phones[1].ID)
}

// TestVerifyOTP_Invalid maps a KO validation to ErrInvalidOTP.
func TestVerifyOTP_Invalid(t *testing.T) {
	t.Parallel()

	reply := `{"data":{"xSValidateOtp":{"res":"KO","msg":"wrong code"}}}`

	srv := httptest.NewServer(graphQLHandler(t, reply, nil))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.VerifyOTP(context.Background(), "otp-hash", "000000")
	require.ErrorIs(t, err, ErrInvalidOTP)
}

// TestInstallations_TokenHeader verifies the bound token travels on
// authenticated calls and the list is decoded.
func TestInstallations_TokenHeader(t *testing.T) {
	t.Parallel()

	reply := `{"data":{"xSInstallations":{"installations":[{"numinst":"0001","alias":"Casa"}]}}}`

	var captured map[string]any

	srv := httptest.NewServer(graphQLHandler(t, reply, &captured))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	client.SetToken("session-hash")

	installations, err := client.Installations(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Installation{{ID: "0001", Alias: "Casa"}}, installations)
	require.Equal(t, "session-hash", captured["__auth"])
}

// TestInstallations_Unauthorized maps auth-code 10010 to ErrUnauthorized.
func TestInstallations_Unauthorized(t *testing.T) {
	t.Parallel()

	reply := `{"errors":[{"message":"Unauthorized","data":{"auth-code":"10010"}}]}`

	srv := httptest.NewServer(graphQLHandler(t, reply, nil))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Installations(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
}

// TestAlarmStatus_Snapshot decodes the per-zone sections into one snapshot.
func TestAlarmStatus_Snapshot(t *testing.T) {
	t.Parallel()

	reply := `{"data":{"xSAlarmStatus":{"res":"OK","msg":"","internal":{"day":{"status":true},"night":{"status":false},"total":{"status":false}},"external":{"status":true}}}}`

	var captured map[string]any

	srv := httptest.NewServer(graphQLHandler(t, reply, &captured))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	snap, err := client.AlarmStatus(context.Background(), "0001")
	require.NoError(t, err)
	require.True(t, snap.InternalDay)
	require.True(t, snap.External)
	require.False(t, snap.InternalNight)
	require.False(t, snap.InternalTotal)
	require.Equal(t, "0001", captured["numinst"])
}

// TestArm_SendsRequestVerb verifies the arm verb reaches the wire.
func TestArm_SendsRequestVerb(t *testing.T) {
	t.Parallel()

	reply := `{"data":{"xSArmPanel":{"res":"OK","msg":""}}}`

	var captured map[string]any

	srv := httptest.NewServer(graphQLHandler(t, reply, &captured))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	require.NoError(t, client.Arm(context.Background(), "0001", RequestArmNight))
	require.Equal(t, RequestArmNight, captured["request"])
}

// TestDisarm_Failure surfaces the API message on a KO result.
func TestDisarm_Failure(t *testing.T) {
	t.Parallel()

	reply := `{"data":{"xSDisarmPanel":{"res":"KO","msg":"bad code"}}}`

	srv := httptest.NewServer(graphQLHandler(t, reply, nil))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	err = client.Disarm(context.Background(), "0001", "1234")
	require.ErrorContains(t, err, "bad code")
}

// TestNewClient_RequiresURL rejects an empty endpoint.
func TestNewClient_RequiresURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("")
	require.Error(t, err)
}
