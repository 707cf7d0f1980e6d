package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/atticweb/attic/auth"
)

// PermissionModerateMembers is the MODERATE_MEMBERS permission bit.
const PermissionModerateMembers uint64 = 1 << 40

// partialGuild is the shape of entries from GET /users/@me/guilds. Discord
// serializes the permission bit set as a decimal string.
type partialGuild struct {
	ID          string `json:"id"`
	Permissions string `json:"permissions"`
}

// PermissionOracle answers whether the principal behind an access token is
// a member of the configured guild holding the required permission. It
// implements auth.Authorizer.
type PermissionOracle struct {
	client   *Client
	guildID  uint64
	required uint64
}

func NewPermissionOracle(client *Client, guildID, requiredPermission uint64) *PermissionOracle {
	return &PermissionOracle{client: client, guildID: guildID, required: requiredPermission}
}

// Authorize fetches the principal's guild list, windowed to the single
// configured guild via the after/limit parameters. An absent guild, a guild
// ID mismatch, or a missing permission bit all mean auth.ErrNoPermissions;
// transport and decoding failures surface as internal errors.
func (o *PermissionOracle) Authorize(ctx context.Context, accessToken string) error {
	url := fmt.Sprintf("%s/users/@me/guilds?after=%d&limit=1", o.client.baseURL, o.guildID-1)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building guild membership request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := o.client.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching guild membership: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("guild membership request returned status %d", resp.StatusCode)
	}

	var guilds []partialGuild
	if err := json.NewDecoder(resp.Body).Decode(&guilds); err != nil {
		return fmt.Errorf("decoding guild membership response: %w", err)
	}

	if len(guilds) == 0 {
		return auth.ErrNoPermissions
	}
	guild := guilds[0]
	if guild.ID != strconv.FormatUint(o.guildID, 10) {
		return auth.ErrNoPermissions
	}
	permissions, err := strconv.ParseUint(guild.Permissions, 10, 64)
	if err != nil {
		return fmt.Errorf("parsing guild permissions %q: %w", guild.Permissions, err)
	}
	if permissions&o.required == 0 {
		return auth.ErrNoPermissions
	}
	return nil
}

var _ auth.Authorizer = (*PermissionOracle)(nil)
