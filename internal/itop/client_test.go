package itop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/config"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util"
)

type capturedCall struct {
	version  string
	authUser string
	authPwd  string
	payload  apiRequest
}

// fakeServer speaks just enough of the iTop REST protocol for the
// client: one endpoint, multipart form in, JSON envelope out.
type fakeServer struct {
	t       *testing.T
	server  *httptest.Server
	calls   []capturedCall
	respond func(call capturedCall) (int, string)
}

func newFakeServer(t *testing.T, respond func(call capturedCall) (int, string)) *fakeServer {
	fs := &fakeServer{t: t, respond: respond}
	fs.server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		call := capturedCall{
			version:  r.FormValue("version"),
			authUser: r.FormValue("auth_user"),
			authPwd:  r.FormValue("auth_pwd"),
		}
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("json_data")), &call.payload))
		fs.calls = append(fs.calls, call)

		status, body := fs.respond(call)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(fs.server.Close)
	return fs
}

func (fs *fakeServer) client() *Client {
	return NewClient(config.ITopConfig{
		URL:                fs.server.URL,
		Version:            "1.3",
		User:               "portal",
		Password:           "secret",
		DefaultOrgID:       "1",
		ServiceName:        "Helpdesk",
		SubcategoryName:    "Hardware",
		TimeoutSeconds:     5,
		InsecureSkipVerify: true,
	}, zap.NewNop())
}

func TestFetchTeamsSendsAuthenticatedMultipart(t *testing.T) {
	fs := newFakeServer(t, func(call capturedCall) (int, string) {
		return http.StatusOK, `{
			"code": 0,
			"objects": {
				"Team::5": {"fields": {"name": "Service Desk", "persons_list": [{"person_id": 41, "person_name": "Jane Smith"}]}}
			}
		}`
	})

	teams, err := fs.client().FetchTeams(context.Background())

	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Service Desk", teams[0].Name)
	require.Len(t, teams[0].Persons, 1)
	assert.Equal(t, "41", teams[0].Persons[0].PersonID, "numeric ids normalize to strings")

	require.Len(t, fs.calls, 1)
	call := fs.calls[0]
	assert.Equal(t, "1.3", call.version)
	assert.Equal(t, "portal", call.authUser)
	assert.Equal(t, "secret", call.authPwd)
	assert.Equal(t, "core/get", call.payload.Operation)
	assert.Equal(t, "Team", call.payload.Class)
	assert.Equal(t, "SELECT Team", call.payload.Key)
}

func TestFetchPersonsMapsTeamList(t *testing.T) {
	fs := newFakeServer(t, func(call capturedCall) (int, string) {
		return http.StatusOK, `{
			"code": 0,
			"objects": {
				"Person::41": {"fields": {"id": "41", "friendlyname": "Jane Smith", "team_list": [{"team_id": 5, "team_name": "Service Desk"}]}}
			}
		}`
	})

	persons, err := fs.client().FetchPersons(context.Background())

	require.NoError(t, err)
	require.Len(t, persons, 1)
	assert.Equal(t, "41", persons[0].ID)
	require.Len(t, persons[0].Teams, 1)
	assert.Equal(t, "Service Desk", persons[0].Teams[0].TeamName)
}

func TestFetchUserRequestsFiltersByService(t *testing.T) {
	fs := newFakeServer(t, func(call capturedCall) (int, string) {
		return http.StatusOK, `{"code": 0, "objects": {}}`
	})

	_, err := fs.client().FetchUserRequests(context.Background())

	require.NoError(t, err)
	require.Len(t, fs.calls, 1)
	assert.Equal(t,
		`SELECT UserRequest WHERE service_name="Helpdesk" AND servicesubcategory_name="Hardware"`,
		fs.calls[0].payload.Key)
}

func TestEnvelopeErrorCode(t *testing.T) {
	fs := newFakeServer(t, func(call capturedCall) (int, string) {
		return http.StatusOK, `{"code": 100, "message": "Invalid login"}`
	})

	_, err := fs.client().FetchTeams(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeGateway))
	assert.Contains(t, err.Error(), "Invalid login")
}

func TestHTTPErrorStatus(t *testing.T) {
	fs := newFakeServer(t, func(call capturedCall) (int, string) {
		return http.StatusBadGateway, "upstream down"
	})

	_, err := fs.client().FetchTeams(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeGateway))
}

func TestCreateUserRequestReturnsRef(t *testing.T) {
	fs := newFakeServer(t, func(call capturedCall) (int, string) {
		return http.StatusOK, `{
			"code": 0,
			"objects": {"UserRequest::123": {"fields": {"ref": "R-000123"}}}
		}`
	})

	ref, err := fs.client().CreateUserRequest(context.Background(), CreateRequest{
		CallerExternalID: "41",
		Title:            "Printer broken (Service Desk)",
		Description:      "<p><strong>EXTENSION</strong>: 99</p>",
	})

	require.NoError(t, err)
	assert.Equal(t, "R-000123", ref)

	require.Len(t, fs.calls, 1)
	fields := fs.calls[0].payload.Fields
	assert.Equal(t, "core/create", fs.calls[0].payload.Operation)
	assert.Equal(t, "41", fields["caller_id"])
	assert.Equal(t, "portal", fields["origin"])
	assert.Equal(t, "4", fields["urgency"])
	assert.Equal(t, "3", fields["impact"])
	assert.Equal(t, "new", fields["status"])
	assert.Equal(t, `SELECT Service WHERE name = "Helpdesk"`, fields["service_id"])
}

func TestCreateUserRequestFallsBackToCallerLookup(t *testing.T) {
	fs := newFakeServer(t, func(call capturedCall) (int, string) {
		return http.StatusOK, `{
			"code": 0,
			"objects": {"UserRequest::123": {"fields": {"ref": "R-000123"}}}
		}`
	})

	_, err := fs.client().CreateUserRequest(context.Background(), CreateRequest{
		CallerName: "Jane Smith",
		Title:      "VPN down",
	})

	require.NoError(t, err)
	assert.Equal(t,
		`SELECT Person WHERE friendlyname = "Jane Smith"`,
		fs.calls[0].payload.Fields["caller_id"])
}

func TestCreateUserRequestRefetchesMissingRef(t *testing.T) {
	fs := newFakeServer(t, func(call capturedCall) (int, string) {
		if call.payload.Operation == "core/create" {
			return http.StatusOK, `{"code": 0, "objects": {"UserRequest::123": {}}}`
		}
		return http.StatusOK, `{
			"code": 0,
			"objects": {"UserRequest::123": {"fields": {"ref": "R-000123"}}}
		}`
	})

	ref, err := fs.client().CreateUserRequest(context.Background(), CreateRequest{
		CallerExternalID: "41",
		Title:            "VPN down",
	})

	require.NoError(t, err)
	assert.Equal(t, "R-000123", ref)

	require.Len(t, fs.calls, 2)
	refetch := fs.calls[1].payload
	assert.Equal(t, "core/get", refetch.Operation)
	assert.Equal(t, "123", refetch.Key, "numeric part of the object key addresses the created ticket")
}

func TestUpdateStatusAddressesByRef(t *testing.T) {
	fs := newFakeServer(t, func(call capturedCall) (int, string) {
		return http.StatusOK, `{"code": 0, "objects": {}}`
	})

	err := fs.client().UpdateStatus(context.Background(), "R-000123", "resolved")

	require.NoError(t, err)
	require.Len(t, fs.calls, 1)
	payload := fs.calls[0].payload
	assert.Equal(t, "core/update", payload.Operation)
	assert.Equal(t, `SELECT UserRequest WHERE ref = "R-000123"`, payload.Key)
	assert.Equal(t, "resolved", payload.Fields["status"])
}
