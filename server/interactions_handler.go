package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/atticweb/attic/discord"
)

const maxInteractionBytes = 1 << 20

// InteractionsHandler is the webhook endpoint for the platform's bot
// callbacks. Every request is signature-checked before its body is parsed;
// a request that does not verify is answered 401 and never interpreted.
func (s *Server) InteractionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxInteractionBytes))
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		interaction, err := discord.VerifyInteraction(
			r.Header.Get(discord.SignatureHeader),
			r.Header.Get(discord.TimestampHeader),
			body,
			s.config.PublicKey,
		)
		if errors.Is(err, discord.ErrMissingHeader) {
			log.Debug().Msg("interaction without signature headers")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if errors.Is(err, discord.ErrInvalidSignature) {
			log.Warn().Msg("interaction with invalid signature")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		switch interaction.Type {
		case discord.InteractionTypePing:
			s.respondInteraction(w, discord.Pong())
		case discord.InteractionTypeApplicationCommand:
			s.respondInteraction(w, s.handleCommand(r, interaction))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}
}

func (s *Server) handleCommand(r *http.Request, interaction *discord.Interaction) *discord.InteractionResponse {
	if interaction.Data == nil || interaction.Data.Name != discord.UploadCommandName {
		return discord.EphemeralMessage("Unknown command.")
	}
	if !s.commandAllowed(interaction) {
		return discord.EphemeralMessage("This command is disabled here.")
	}

	message, ok := targetMessage(interaction.Data)
	if !ok {
		return discord.EphemeralMessage("Found no attachments.")
	}

	result := s.gallery.SaveAttachments(r.Context(), message.Attachments)
	if result.Uploaded == 0 {
		return discord.EphemeralMessage("Found no attachments.")
	}

	fields := make([]discord.EmbedField, 0, 2)
	if result.Skipped > 0 {
		fields = append(fields, discord.EmbedField{
			Name:  "Skipped",
			Value: fmt.Sprintf("%d non-image attachments", result.Skipped),
		})
	}
	if result.Failed > 0 {
		fields = append(fields, discord.EmbedField{
			Name:  "Failed",
			Value: fmt.Sprintf("%d attachments could not be saved", result.Failed),
		})
	}
	description := fmt.Sprintf("Uploaded %d attachments: %s%s/%s",
		result.Uploaded, s.config.RootURL, RouteGallery, result.ID)
	return discord.EphemeralMessage(description, fields...)
}

// commandAllowed restricts the command to the configured guild, and only
// when the bot itself holds the required permission there.
func (s *Server) commandAllowed(interaction *discord.Interaction) bool {
	if interaction.GuildID != strconv.FormatUint(s.config.Guild, 10) {
		return false
	}
	permissions, err := strconv.ParseUint(interaction.AppPermissions, 10, 64)
	if err != nil {
		return false
	}
	return permissions&s.config.RequiredPermission != 0
}

func targetMessage(data *discord.InteractionData) (discord.Message, bool) {
	if data.Resolved == nil {
		return discord.Message{}, false
	}
	message, ok := data.Resolved.Messages[data.TargetID]
	return message, ok
}

func (s *Server) respondInteraction(w http.ResponseWriter, resp *discord.InteractionResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("writing interaction response")
	}
}
