package crm

import (
	"encoding/json"
	"fmt"

	"github.com/kolo/xmlrpc"
)

// Client talks to the order platform's XML-RPC endpoints
// (Odoo-compatible execute_kw protocol).
type Client struct {
	URL       string
	Database  string
	Username  string
	Password  string
	UID       int
	commonURL string
	objectURL string
}

// NewClient builds a client for the given platform instance
func NewClient(url, db, username, password string) *Client {
	return &Client{
		URL:       url,
		Database:  db,
		Username:  username,
		Password:  password,
		commonURL: fmt.Sprintf("%s/xmlrpc/2/common", url),
		objectURL: fmt.Sprintf("%s/xmlrpc/2/object", url),
	}
}

// Authenticate resolves and caches the platform user id
func (c *Client) Authenticate() (int, error) {
	rpc, err := xmlrpc.NewClient(c.commonURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer rpc.Close()

	args := []interface{}{c.Database, c.Username, c.Password, make([]interface{}, 0)}
	var uid int
	if err := rpc.Call("authenticate", args, &uid); err != nil {
		return 0, fmt.Errorf("authentication failed: %w", err)
	}
	c.UID = uid
	return uid, nil
}

// SearchRead runs search_read on a model and decodes the raw result
// into result, which must be a pointer to a slice of structs with json
// tags matching the requested field names.
func (c *Client) SearchRead(model string, domain []interface{}, fields []string, limit, offset int, result interface{}) error {
	rpc, err := xmlrpc.NewClient(c.objectURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer rpc.Close()

	args := []interface{}{
		c.Database,
		c.UID,
		c.Password,
		model,
		"search_read",
		[]interface{}{domain},
		map[string]interface{}{
			"fields": fields,
			"limit":  limit,
			"offset": offset,
		},
	}

	var raw []map[string]interface{}
	if err := rpc.Call("execute_kw", args, &raw); err != nil {
		return fmt.Errorf("search_read %s: %w", model, err)
	}
	return decodeInto(raw, result)
}

// Read fetches records by id
func (c *Client) Read(model string, ids []int64, fields []string, result interface{}) error {
	rpc, err := xmlrpc.NewClient(c.objectURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer rpc.Close()

	args := []interface{}{
		c.Database,
		c.UID,
		c.Password,
		model,
		"read",
		[]interface{}{ids},
		map[string]interface{}{"fields": fields},
	}

	var raw []map[string]interface{}
	if err := rpc.Call("execute_kw", args, &raw); err != nil {
		return fmt.Errorf("read %s: %w", model, err)
	}
	return decodeInto(raw, result)
}

// Write updates existing records
func (c *Client) Write(model string, ids []int64, values map[string]interface{}) error {
	rpc, err := xmlrpc.NewClient(c.objectURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer rpc.Close()

	args := []interface{}{
		c.Database,
		c.UID,
		c.Password,
		model,
		"write",
		[]interface{}{ids, values},
	}

	var success bool
	if err := rpc.Call("execute_kw", args, &success); err != nil {
		return fmt.Errorf("write %s: %w", model, err)
	}
	if !success {
		return fmt.Errorf("write %s returned false", model)
	}
	return nil
}

// decodeInto converts the dynamically typed RPC maps into the typed
// target via a JSON round trip.
func decodeInto(raw []map[string]interface{}, result interface{}) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal raw result: %w", err)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to unmarshal into target: %w", err)
	}
	return nil
}
