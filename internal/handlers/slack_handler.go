package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dutyrotation/slack-duty-bot/internal/domain"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/service"
	slackcmd "github.com/dutyrotation/slack-duty-bot/internal/slack"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

type SlackHandler struct {
	services      *service.Instance
	signingSecret string
	log           *zap.Logger
}

func New(services *service.Instance, signingSecret string, log *zap.Logger) *SlackHandler {
	return &SlackHandler{
		services:      services,
		signingSecret: signingSecret,
		log:           log,
	}
}

func (h *SlackHandler) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	// Verify request from Slack
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	// Verify Slack signature
	verifier, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if _, err := verifier.Write(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := verifier.Ensure(); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// Parse command
	s, err := slack.SlashCommandParse(r)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Parse our command
	cmd, err := slackcmd.ParseCommand(s.Text)
	if err != nil {
		h.respondWithError(w, err.Error())
		return
	}

	// Handle command
	response := h.handleCommand(r.Context(), cmd, &s)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *SlackHandler) handleCommand(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	switch cmd.Type {
	case slackcmd.CmdActivate:
		return h.handleActivate(slashCmd)
	case slackcmd.CmdAdd:
		return h.handleAddParticipant(cmd)
	case slackcmd.CmdRemove:
		return h.handleRemoveParticipant(ctx, cmd)
	case slackcmd.CmdList:
		return h.handleListParticipants()
	case slackcmd.CmdCurrent:
		return h.handleCurrent()
	case slackcmd.CmdPosition:
		return h.handlePosition(slashCmd)
	case slackcmd.CmdVacationAdd:
		return h.handleVacationAdd(cmd, slashCmd)
	case slackcmd.CmdVacationList:
		return h.handleVacationList(slashCmd)
	case slackcmd.CmdVacationDelete:
		return h.handleVacationDelete(cmd, slashCmd)
	case slackcmd.CmdNext:
		return h.handleNext(ctx)
	case slackcmd.CmdHelp:
		return h.handleHelp()
	default:
		return h.createErrorResponse("Unknown command")
	}
}

func (h *SlackHandler) handleActivate(slashCmd *slack.SlashCommand) *slack.Msg {
	if err := h.services.Roster.Activate(slashCmd.ChannelID); err != nil {
		h.log.Error("failed to activate channel", zap.Error(err))
		return h.createErrorResponse("Failed to activate the bot in this channel")
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         "✅ Duty bot activated. Announcements will be posted in this channel.",
	}
}

func (h *SlackHandler) handleAddParticipant(cmd *slackcmd.Command) *slack.Msg {
	if len(cmd.Args) == 0 {
		return h.createErrorResponse("Please mention the user: `/duty add @user`")
	}

	userID, ok := parseMention(cmd.Args[0])
	if !ok {
		return h.createErrorResponse("Please mention the user: `/duty add @user`")
	}

	participant, err := h.services.Roster.AddParticipant(userID)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return h.createErrorResponse(fmt.Sprintf("<@%s> is already in the rotation.", userID))
	}
	if err != nil {
		h.log.Error("failed to add participant", zap.Error(err))
		return h.createErrorResponse("Failed to add the user to the rotation")
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         fmt.Sprintf("✅ <@%s> joined the duty rotation at position %d.", userID, participant.Position),
	}
}

func (h *SlackHandler) handleRemoveParticipant(ctx context.Context, cmd *slackcmd.Command) *slack.Msg {
	if len(cmd.Args) == 0 {
		return h.createErrorResponse("Please mention the user: `/duty remove @user`")
	}

	userID, ok := parseMention(cmd.Args[0])
	if !ok {
		return h.createErrorResponse("Please mention the user: `/duty remove @user`")
	}

	err := h.services.Roster.RemoveParticipant(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return h.createErrorResponse(fmt.Sprintf("<@%s> is not in the rotation.", userID))
	}
	if err != nil {
		h.log.Error("failed to remove participant", zap.Error(err))
		return h.createErrorResponse("Failed to remove the user from the rotation")
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         fmt.Sprintf("✅ <@%s> was removed from the duty rotation.", userID),
	}
}

func (h *SlackHandler) handleListParticipants() *slack.Msg {
	participants, err := h.services.Roster.List()
	if err != nil {
		h.log.Error("failed to list participants", zap.Error(err))
		return h.createErrorResponse("Failed to list the rotation")
	}

	if len(participants) == 0 {
		return &slack.Msg{
			ResponseType: slack.ResponseTypeEphemeral,
			Text:         "Nobody is in the rotation yet. Use `/duty add @user` to add members.",
		}
	}

	var list strings.Builder
	list.WriteString("*Duty rotation:*\n")
	for _, p := range participants {
		if p.Position == domain.ActivePosition {
			list.WriteString(fmt.Sprintf("%d. %s (on duty)\n", p.Position, p.DisplayName))
			continue
		}
		list.WriteString(fmt.Sprintf("%d. %s\n", p.Position, p.DisplayName))
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         list.String(),
	}
}

func (h *SlackHandler) handleCurrent() *slack.Msg {
	participant, err := h.services.Rotation.Current()
	if err != nil {
		h.log.Error("failed to get current duty holder", zap.Error(err))
		return h.createErrorResponse("Failed to look up who is on duty")
	}

	if participant == nil {
		return &slack.Msg{
			ResponseType: slack.ResponseTypeEphemeral,
			Text:         "Nobody is on duty. Use `/duty add @user` to build the rotation.",
		}
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         fmt.Sprintf("<@%s> is on duty this week.", participant.SlackUserID),
	}
}

func (h *SlackHandler) handlePosition(slashCmd *slack.SlashCommand) *slack.Msg {
	position, err := h.services.Roster.Position(slashCmd.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return h.createErrorResponse("You are not in the duty rotation.")
	}
	if err != nil {
		h.log.Error("failed to get position", zap.Error(err))
		return h.createErrorResponse("Failed to look up your position")
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("Your current position in the rotation: %d", position),
	}
}

func (h *SlackHandler) handleVacationAdd(cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	if len(cmd.Args) != 2 {
		return h.createErrorResponse("Use the format: `/duty vacation add YYYY-MM-DD YYYY-MM-DD`")
	}

	start, err := time.Parse(domain.DateLayout, cmd.Args[0])
	if err != nil {
		return h.createErrorResponse(fmt.Sprintf("Invalid start date %q. Use YYYY-MM-DD.", cmd.Args[0]))
	}

	end, err := time.Parse(domain.DateLayout, cmd.Args[1])
	if err != nil {
		return h.createErrorResponse(fmt.Sprintf("Invalid end date %q. Use YYYY-MM-DD.", cmd.Args[1]))
	}

	vacation, err := h.services.Vacation.Add(slashCmd.UserID, start, end)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return h.createErrorResponse("You are not in the duty rotation.")
	case errors.Is(err, domain.ErrInvalidRange):
		return h.createErrorResponse("The start date is after the end date.")
	case errors.Is(err, domain.ErrOverlap):
		return h.createErrorResponse("This vacation overlaps one you already scheduled.")
	case err != nil:
		h.log.Error("failed to add vacation", zap.Error(err))
		return h.createErrorResponse("Failed to schedule the vacation")
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text: fmt.Sprintf("🏖️ Vacation scheduled from %s to %s.",
			vacation.StartDate.Format(domain.DateLayout),
			vacation.EndDate.Format(domain.DateLayout)),
	}
}

func (h *SlackHandler) handleVacationList(slashCmd *slack.SlashCommand) *slack.Msg {
	vacations, err := h.services.Vacation.ListFor(slashCmd.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return h.createErrorResponse("You are not in the duty rotation.")
	}
	if err != nil {
		h.log.Error("failed to list vacations", zap.Error(err))
		return h.createErrorResponse("Failed to list your vacations")
	}

	if len(vacations) == 0 {
		return &slack.Msg{
			ResponseType: slack.ResponseTypeEphemeral,
			Text:         "You have no scheduled vacations.",
		}
	}

	var list strings.Builder
	list.WriteString("*Your vacations:*\n")
	for i, v := range vacations {
		list.WriteString(fmt.Sprintf("%d. %s to %s\n",
			i+1,
			v.StartDate.Format(domain.DateLayout),
			v.EndDate.Format(domain.DateLayout)))
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         list.String(),
	}
}

func (h *SlackHandler) handleVacationDelete(cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	if len(cmd.Args) != 1 {
		return h.createErrorResponse("Use the format: `/duty vacation delete N`")
	}

	index, err := strconv.Atoi(cmd.Args[0])
	if err != nil {
		return h.createErrorResponse(fmt.Sprintf("Invalid vacation index %q.", cmd.Args[0]))
	}

	vacation, err := h.services.Vacation.DeleteAt(slashCmd.UserID, index)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return h.createErrorResponse("You are not in the duty rotation.")
	case errors.Is(err, domain.ErrOutOfRange):
		return h.createErrorResponse("There is no vacation with that number. Check `/duty vacation list`.")
	case err != nil:
		h.log.Error("failed to delete vacation", zap.Error(err))
		return h.createErrorResponse("Failed to delete the vacation")
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text: fmt.Sprintf("🗑️ Vacation from %s to %s deleted.",
			vacation.StartDate.Format(domain.DateLayout),
			vacation.EndDate.Format(domain.DateLayout)),
	}
}

func (h *SlackHandler) handleNext(ctx context.Context) *slack.Msg {
	selectee, err := h.services.Rotation.Advance(ctx, time.Now())
	if err != nil {
		h.log.Error("failed to advance rotation", zap.Error(err))
		return h.createErrorResponse("Failed to advance the rotation")
	}

	if selectee == nil {
		return &slack.Msg{
			ResponseType: slack.ResponseTypeEphemeral,
			Text:         "No available participant to take duty right now.",
		}
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         fmt.Sprintf("⏭️ Queue advanced. <@%s> is now on duty.", selectee.SlackUserID),
	}
}

func (h *SlackHandler) handleHelp() *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         slackcmd.GetHelpText(),
	}
}

// parseMention extracts the user id from a Slack mention. Slash command
// text carries mentions as <@U12345> or <@U12345|name>.
func parseMention(mention string) (string, bool) {
	userID := strings.TrimSpace(mention)
	if !strings.HasPrefix(userID, "<@") || !strings.HasSuffix(userID, ">") {
		return "", false
	}

	userID = strings.TrimPrefix(userID, "<@")
	userID = strings.TrimSuffix(userID, ">")
	if idx := strings.Index(userID, "|"); idx >= 0 {
		userID = userID[:idx]
	}

	return userID, userID != ""
}

func (h *SlackHandler) createErrorResponse(message string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("❌ %s", message),
	}
}

func (h *SlackHandler) respondWithError(w http.ResponseWriter, message string) {
	response := h.createErrorResponse(message)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
