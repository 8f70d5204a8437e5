package slack

import (
	"fmt"
	"strings"
)

type CommandType string

const (
	CmdActivate       CommandType = "activate"
	CmdAdd            CommandType = "add"
	CmdRemove         CommandType = "remove"
	CmdList           CommandType = "list"
	CmdCurrent        CommandType = "current"
	CmdPosition       CommandType = "position"
	CmdVacationAdd    CommandType = "vacation add"
	CmdVacationList   CommandType = "vacation list"
	CmdVacationDelete CommandType = "vacation delete"
	CmdNext           CommandType = "next"
	CmdHelp           CommandType = "help"
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

func ParseCommand(text string) (*Command, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return &Command{Type: CmdHelp}, nil
	}

	cmd := &Command{
		Raw: text,
	}

	switch parts[0] {
	case "activate", "start":
		cmd.Type = CmdActivate
	case "add":
		cmd.Type = CmdAdd
		cmd.Args = parts[1:]
	case "remove", "rm":
		cmd.Type = CmdRemove
		cmd.Args = parts[1:]
	case "list", "ls":
		cmd.Type = CmdList
	case "current", "active":
		cmd.Type = CmdCurrent
	case "position", "turn":
		cmd.Type = CmdPosition
	case "vacation":
		return parseVacationCommand(cmd, parts)
	case "next", "advance":
		cmd.Type = CmdNext
	case "help":
		cmd.Type = CmdHelp
	default:
		return nil, fmt.Errorf("unknown command: %s", parts[0])
	}

	return cmd, nil
}

func parseVacationCommand(cmd *Command, parts []string) (*Command, error) {
	if len(parts) < 2 {
		return nil, fmt.Errorf("vacation needs a subcommand: add, list or delete")
	}

	switch parts[1] {
	case "add":
		cmd.Type = CmdVacationAdd
		cmd.Args = parts[2:]
	case "list", "ls":
		cmd.Type = CmdVacationList
	case "delete", "rm":
		cmd.Type = CmdVacationDelete
		cmd.Args = parts[2:]
	default:
		return nil, fmt.Errorf("unknown vacation subcommand: %s", parts[1])
	}

	return cmd, nil
}

func GetHelpText() string {
	return `*Available commands:*

*Setup:*
• ` + "`/duty activate`" + ` - Bind duty announcements to this channel

*Rotation:*
• ` + "`/duty add @user`" + ` - Add a member to the rotation
• ` + "`/duty remove @user`" + ` - Remove a member from the rotation
• ` + "`/duty list`" + ` - Show the rotation queue
• ` + "`/duty current`" + ` - Show who is on duty this week
• ` + "`/duty position`" + ` - Show your position in the queue
• ` + "`/duty next`" + ` - Hand duty over to the next member now

*Vacations:*
• ` + "`/duty vacation add YYYY-MM-DD YYYY-MM-DD`" + ` - Schedule a vacation
• ` + "`/duty vacation list`" + ` - Show your scheduled vacations
• ` + "`/duty vacation delete N`" + ` - Delete your N-th vacation`
}
