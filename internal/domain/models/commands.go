package models

import "strings"

// CommandType enumerates supported worker command categories.
type CommandType string

const (
	CommandEggs      CommandType = "eggs"
	CommandFeed      CommandType = "feed"
	CommandMortality CommandType = "mortality"
	CommandSales     CommandType = "sales"
	CommandExpenses  CommandType = "expenses"
	CommandKPI       CommandType = "kpi"
	CommandRisk      CommandType = "risk"
	CommandForecast  CommandType = "forecast"
	CommandAlerts    CommandType = "alerts"
	CommandHealth    CommandType = "health"
	CommandHelp      CommandType = "help"
	CommandUnknown   CommandType = "unknown"
)

var commandAliases = map[string]CommandType{
	"eggs":      CommandEggs,
	"oeufs":     CommandEggs,
	"feed":      CommandFeed,
	"mortality": CommandMortality,
	"deaths":    CommandMortality,
	"sales":     CommandSales,
	"expenses":  CommandExpenses,
	"kpi":       CommandKPI,
	"kpis":      CommandKPI,
	"risk":      CommandRisk,
	"forecast":  CommandForecast,
	"alerts":    CommandAlerts,
	"health":    CommandHealth,
	"help":      CommandHelp,
}

// Command represents a parsed worker instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// IsRecord reports whether the command appends a row to the workbook.
func (c Command) IsRecord() bool {
	switch c.Type {
	case CommandEggs, CommandFeed, CommandMortality, CommandSales, CommandExpenses:
		return true
	default:
		return false
	}
}

// ParseCommand derives a Command instance from free-form text messages. The
// command word is case-insensitive and may carry a leading slash; arguments keep
// their case so flock ids match the workbook.
func ParseCommand(message string) Command {
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(message)
	if len(tokens) == 0 {
		return cmd
	}

	head := strings.TrimPrefix(strings.ToLower(tokens[0]), "/")
	if t, ok := commandAliases[head]; ok {
		cmd.Type = t
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
