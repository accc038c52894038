package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// The message and recipient arrive as argv, never spliced into the script.
const sendScript = `on run argv
	set theMessage to item 1 of argv
	set theBuddy to item 2 of argv
	tell application "Messages"
		send theMessage to buddy theBuddy of (service 1 whose service type is iMessage)
	end tell
end run`

// IMessage sends alerts through Messages.app via osascript.
type IMessage struct {
	binary string
}

// NewIMessage creates an iMessage sender.
func NewIMessage() *IMessage {
	return &IMessage{binary: "osascript"}
}

func (m *IMessage) Name() string { return "imessage" }

// Args returns the osascript argument vector for one message.
func (m *IMessage) Args(recipient, message string) []string {
	return []string{"-e", sendScript, message, recipient}
}

// Send runs osascript with the message.
func (m *IMessage) Send(ctx context.Context, recipient, message string) error {
	out, err := exec.CommandContext(ctx, m.binary, m.Args(recipient, message)...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
