package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// UploadCommandName is the message context command this application
// registers and answers.
const UploadCommandName = "Save Attached Images"

const commandTypeMessage = 3

// RegisterCommands overwrites the application's global command set with
// the single upload command. The integration_types and contexts fields make
// the command available as a user-installed app in every surface.
func (c *Client) RegisterCommands(ctx context.Context, applicationID string) error {
	commands := []map[string]any{{
		"name":              UploadCommandName,
		"type":              commandTypeMessage,
		"integration_types": []int{1},
		"contexts":          []int{0, 1, 2},
	}}
	body, err := json.Marshal(commands)
	if err != nil {
		return fmt.Errorf("encoding command payload: %w", err)
	}

	url := fmt.Sprintf("%s/applications/%s/commands", c.baseURL, applicationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building command registration request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("command registration returned status %d: %s", resp.StatusCode, detail)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
