package itop

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/config"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util"
)

// Gateway is the outbound interface to the external ITSM.
type Gateway interface {
	FetchTeams(ctx context.Context) ([]TeamRecord, error)
	FetchPersons(ctx context.Context) ([]PersonRecord, error)
	FetchUserRequests(ctx context.Context) ([]UserRequestRecord, error)
	CreateUserRequest(ctx context.Context, req CreateRequest) (string, error)
	UpdateStatus(ctx context.Context, ref, status string) error
}

// CreateRequest carries the fields needed to open a UserRequest. The
// caller is addressed by opaque iTop person id when one is cached; the
// name-based OQL lookup is a fallback that can fail on non-unique names.
type CreateRequest struct {
	CallerExternalID string
	CallerName       string
	Title            string
	Description      string
}

// Client issues authenticated multipart form requests against a single
// iTop REST endpoint.
type Client struct {
	cfg    config.ITopConfig
	http   *http.Client
	logger *zap.Logger
}

// NewClient builds a gateway client. TLS verification is disabled by
// default: the target deployment serves a self-signed certificate and
// trusting it is a deliberate decision for that environment, overridable
// via ITOP_TLS_SKIP_VERIFY=false.
func NewClient(cfg config.ITopConfig, logger *zap.Logger) *Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout(),
		},
		logger: logger,
	}
}

// FetchTeams queries all Team objects.
func (c *Client) FetchTeams(ctx context.Context) ([]TeamRecord, error) {
	env, err := c.post(ctx, "fetch teams", apiRequest{
		Operation:    "core/get",
		Class:        "Team",
		Key:          "SELECT Team",
		OutputFields: "name,persons_list",
	})
	if err != nil {
		return nil, err
	}

	teams := make([]TeamRecord, 0, len(env.Objects))
	for key, obj := range env.Objects {
		var fields teamFields
		if err := json.Unmarshal(obj.Fields, &fields); err != nil {
			c.logger.Warn("skipping malformed team object", zap.String("key", key), zap.Error(err))
			continue
		}
		record := TeamRecord{Key: key, Name: fields.Name}
		for _, member := range fields.PersonsList {
			record.Persons = append(record.Persons, TeamMember{
				PersonID:   string(member.PersonID),
				PersonName: member.PersonName,
			})
		}
		teams = append(teams, record)
	}
	return teams, nil
}

// FetchPersons queries all Person objects.
func (c *Client) FetchPersons(ctx context.Context) ([]PersonRecord, error) {
	env, err := c.post(ctx, "fetch persons", apiRequest{
		Operation:    "core/get",
		Class:        "Person",
		Key:          "SELECT Person",
		OutputFields: "id,friendlyname,team_list",
	})
	if err != nil {
		return nil, err
	}

	persons := make([]PersonRecord, 0, len(env.Objects))
	for key, obj := range env.Objects {
		var fields personFields
		if err := json.Unmarshal(obj.Fields, &fields); err != nil {
			c.logger.Warn("skipping malformed person object", zap.String("key", key), zap.Error(err))
			continue
		}
		record := PersonRecord{Key: key, ID: string(fields.ID), FriendlyName: fields.FriendlyName}
		for _, team := range fields.TeamList {
			record.Teams = append(record.Teams, PersonTeam{
				TeamID:   string(team.TeamID),
				TeamName: team.TeamName,
			})
		}
		persons = append(persons, record)
	}
	return persons, nil
}

// FetchUserRequests queries UserRequest objects filtered to the
// configured service and subcategory.
func (c *Client) FetchUserRequests(ctx context.Context) ([]UserRequestRecord, error) {
	env, err := c.post(ctx, "fetch tickets", apiRequest{
		Operation:    "core/get",
		Class:        "UserRequest",
		Key:          c.ticketQuery(),
		OutputFields: "*",
	})
	if err != nil {
		return nil, err
	}

	records := make([]UserRequestRecord, 0, len(env.Objects))
	for key, obj := range env.Objects {
		var fields userRequestFields
		if err := json.Unmarshal(obj.Fields, &fields); err != nil {
			c.logger.Warn("skipping malformed ticket object", zap.String("key", key), zap.Error(err))
			continue
		}
		records = append(records, UserRequestRecord{
			Key:                key,
			Ref:                fields.Ref,
			Title:              fields.Title,
			Description:        fields.Description,
			CallerName:         fields.CallerName,
			CallerFriendlyName: fields.CallerFriendlyName,
			TeamName:           fields.TeamName,
			AgentFriendlyName:  fields.AgentFriendlyName,
			Status:             fields.Status,
			StartDate:          fields.StartDate,
			LastUpdate:         fields.LastUpdate,
		})
	}
	return records, nil
}

// CreateUserRequest opens a ticket and returns the external reference.
// Some iTop versions omit the requested output fields from the create
// envelope; when ref is absent the created object is re-fetched by its
// numeric key.
func (c *Client) CreateUserRequest(ctx context.Context, req CreateRequest) (string, error) {
	callerID := req.CallerExternalID
	if callerID == "" {
		callerID = fmt.Sprintf("SELECT Person WHERE friendlyname = %q", req.CallerName)
	}

	env, err := c.post(ctx, "create ticket", apiRequest{
		Operation:    "core/create",
		Comment:      "Created from helpdesk portal",
		Class:        "UserRequest",
		OutputFields: "ref",
		Fields: map[string]string{
			"caller_id":             callerID,
			"org_id":                c.cfg.DefaultOrgID,
			"origin":                "portal",
			"title":                 req.Title,
			"description":           req.Description,
			"urgency":               "4",
			"impact":                "3",
			"status":                "new",
			"service_id":            fmt.Sprintf("SELECT Service WHERE name = %q", c.cfg.ServiceName),
			"servicesubcategory_id": fmt.Sprintf("SELECT ServiceSubcategory WHERE name = %q", c.cfg.SubcategoryName),
		},
	})
	if err != nil {
		return "", err
	}

	objectKey := ""
	for key, obj := range env.Objects {
		objectKey = key
		if len(obj.Fields) > 0 {
			var fields refFields
			if err := json.Unmarshal(obj.Fields, &fields); err == nil && fields.Ref != "" {
				return fields.Ref, nil
			}
		}
		break
	}
	if objectKey == "" {
		return "", apperrors.NewGatewayError("create ticket", fmt.Errorf("no objects in create response"))
	}

	// Object keys look like "UserRequest::123"; the numeric part
	// addresses the created object directly.
	numericKey := objectKey
	if parts := strings.Split(objectKey, "::"); len(parts) > 1 {
		numericKey = parts[1]
	}

	refEnv, err := c.post(ctx, "fetch ticket ref", apiRequest{
		Operation:    "core/get",
		Class:        "UserRequest",
		Key:          numericKey,
		OutputFields: "ref",
	})
	if err != nil {
		return "", err
	}
	for _, obj := range refEnv.Objects {
		var fields refFields
		if err := json.Unmarshal(obj.Fields, &fields); err == nil && fields.Ref != "" {
			return fields.Ref, nil
		}
	}
	return "", apperrors.NewGatewayError("create ticket", fmt.Errorf("could not extract reference for %s", objectKey))
}

// UpdateStatus sets the remote status of a ticket addressed by ref.
func (c *Client) UpdateStatus(ctx context.Context, ref, status string) error {
	_, err := c.post(ctx, "update status", apiRequest{
		Operation: "core/update",
		Comment:   "Updated from helpdesk portal",
		Class:     "UserRequest",
		Key:       fmt.Sprintf("SELECT UserRequest WHERE ref = %q", ref),
		Fields:    map[string]string{"status": status},
	})
	return err
}

func (c *Client) ticketQuery() string {
	switch {
	case c.cfg.ServiceName != "" && c.cfg.SubcategoryName != "":
		return fmt.Sprintf("SELECT UserRequest WHERE service_name=%q AND servicesubcategory_name=%q",
			c.cfg.ServiceName, c.cfg.SubcategoryName)
	case c.cfg.ServiceName != "":
		return fmt.Sprintf("SELECT UserRequest WHERE service_name=%q", c.cfg.ServiceName)
	default:
		return "SELECT UserRequest"
	}
}

func (c *Client) post(ctx context.Context, operation string, payload apiRequest) (*envelope, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewGatewayError(operation, err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	formFields := map[string]string{
		"version":   c.cfg.Version,
		"auth_user": c.cfg.User,
		"auth_pwd":  c.cfg.Password,
		"json_data": string(jsonData),
	}
	for name, value := range formFields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, apperrors.NewGatewayError(operation, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.NewGatewayError(operation, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, &body)
	if err != nil {
		return nil, apperrors.NewGatewayError(operation, err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewGatewayError(operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewGatewayError(operation, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewGatewayError(operation,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, apperrors.NewGatewayError(operation, fmt.Errorf("malformed envelope: %w", err))
	}
	if env.Code != 0 {
		return nil, apperrors.NewGatewayError(operation,
			fmt.Errorf("api code %d: %s", env.Code, env.Message))
	}

	c.logger.Debug("itsm call completed",
		zap.String("operation", operation),
		zap.Int("objects", len(env.Objects)))
	return &env, nil
}
