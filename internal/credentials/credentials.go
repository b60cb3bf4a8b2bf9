// Package credentials obtains the secret half of Jamf Pro credentials.
//
// Secrets are never written to disk. They come from the RTS_SECRET
// environment variable or from a no-echo terminal prompt.
package credentials

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/muurk/rtsctl/internal/logging"
)

// SecretEnvVar holds the password or API client secret for non-interactive use
const SecretEnvVar = "RTS_SECRET"

// ErrNoSecret is returned when a source has no secret to offer
var ErrNoSecret = errors.New("no secret available")

// Source provides the secret for an identifier (username or client ID)
type Source interface {
	Secret(ctx context.Context, identifier string) (string, error)
}

// EnvSource reads the secret from an environment variable
type EnvSource struct {
	// Name of the variable, SecretEnvVar when empty
	Name string

	// lookup replaces os.LookupEnv in tests
	lookup func(string) (string, bool)
}

// Secret returns the variable value, or ErrNoSecret when it is unset or empty
func (e EnvSource) Secret(_ context.Context, _ string) (string, error) {
	name := e.Name
	if name == "" {
		name = SecretEnvVar
	}
	lookup := e.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	value, ok := lookup(name)
	if !ok || value == "" {
		return "", ErrNoSecret
	}
	logging.Debug("Secret read from environment", zap.String("variable", name))
	return value, nil
}

// PromptSource asks for the secret on a terminal without echo
type PromptSource struct {
	In  *os.File
	Out io.Writer

	// APIRoles changes the prompt wording for API clients
	APIRoles bool

	// readPassword replaces term.ReadPassword in tests
	readPassword func(fd int) ([]byte, error)
	// isTerminal replaces term.IsTerminal in tests
	isTerminal func(fd int) bool
}

// NewPromptSource creates a prompt on stdin/stderr
func NewPromptSource(apiRoles bool) *PromptSource {
	return &PromptSource{In: os.Stdin, Out: os.Stderr, APIRoles: apiRoles}
}

// Secret prompts for the secret. Without a terminal it reads one line from In.
func (p *PromptSource) Secret(ctx context.Context, identifier string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	in := p.In
	if in == nil {
		in = os.Stdin
	}
	out := p.Out
	if out == nil {
		out = os.Stderr
	}
	isTerminal := p.isTerminal
	if isTerminal == nil {
		isTerminal = term.IsTerminal
	}
	readPassword := p.readPassword
	if readPassword == nil {
		readPassword = term.ReadPassword
	}

	label := "Password"
	if p.APIRoles {
		label = "Client secret"
	}

	fd := int(in.Fd())
	if !isTerminal(fd) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("%w: stdin is not a terminal and %s is not set", ErrNoSecret, SecretEnvVar)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	_, _ = fmt.Fprintf(out, "%s for %s: ", label, identifier)
	data, err := readPassword(fd)
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}

	secret := string(data)
	if secret == "" {
		return "", ErrNoSecret
	}
	return secret, nil
}

// Chain tries each source in order and returns the first secret found.
// Errors other than ErrNoSecret stop the chain.
type Chain []Source

// Secret implements Source
func (c Chain) Secret(ctx context.Context, identifier string) (string, error) {
	for _, src := range c {
		secret, err := src.Secret(ctx, identifier)
		if err == nil {
			return secret, nil
		}
		if !errors.Is(err, ErrNoSecret) {
			return "", err
		}
	}
	return "", ErrNoSecret
}

// Default returns the environment source followed by a terminal prompt
func Default(apiRoles bool) Source {
	return Chain{EnvSource{}, NewPromptSource(apiRoles)}
}
