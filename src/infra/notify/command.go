package notify

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/template"
)

// Command runs a user-configured shell command per alert. The command is a
// text/template with .Recipient and .Message.
type Command struct {
	tmpl *template.Template
}

// NewCommand parses the command template.
func NewCommand(command string) (*Command, error) {
	tmpl, err := template.New("notify").Parse(command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notify command template: %w", err)
	}
	return &Command{tmpl: tmpl}, nil
}

func (c *Command) Name() string { return "command" }

// Render returns the command line for one alert.
func (c *Command) Render(recipient, message string) (string, error) {
	data := struct {
		Recipient string
		Message   string
	}{Recipient: recipient, Message: message}

	var command strings.Builder
	if err := c.tmpl.Execute(&command, data); err != nil {
		return "", fmt.Errorf("failed to execute notify command template: %w", err)
	}
	return command.String(), nil
}

// Send runs the rendered command through the shell. The message is also
// exported as PHOTOIMPORT_MESSAGE for commands that prefer not to quote it.
func (c *Command) Send(ctx context.Context, recipient, message string) error {
	command, err := c.Render(recipient, message)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	cmd.Env = append(os.Environ(),
		"PHOTOIMPORT_RECIPIENT="+recipient,
		"PHOTOIMPORT_MESSAGE="+message,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("notify command failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
