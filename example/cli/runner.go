// Package cli is an interactive terminal client for an embedded
// authentication flow service: it initializes a flow, prompts for
// authenticator choices and credentials on stdin, completes federated steps
// through the system browser, and persists the resulting token.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"golang.org/x/oauth2"

	"github.com/embedid/authflow"
	"github.com/embedid/authflow/redirect"
	"github.com/embedid/authflow/redirect/browser"
	"github.com/embedid/authflow/schema"
	"github.com/embedid/authflow/store"
	"github.com/embedid/authflow/transport"
)

func Run(args []string) error {

	options := &Options{}
	_, err := flags.ParseArgs(options, args)
	if err != nil {
		return err
	}
	if options.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	ctx := context.Background()

	service := transport.New(options.URL, transport.WithApplicationID(options.Application))
	coordinator := redirect.New(browser.New(browser.WithLocalRedirectURI()))
	controller, err := authflow.New(service, service,
		authflow.WithRedirectCoordinator(coordinator),
		authflow.WithDenyList(options.Deny...))
	if err != nil {
		return err
	}

	view, err := controller.Initialize(ctx)
	if err != nil {
		return err
	}
	reader := bufio.NewScanner(os.Stdin)
	for view.State != authflow.StateSuccess {
		printMessages(view.Messages)
		var next *authflow.StepView
		switch {
		case len(view.Options) > 0:
			next, err = submitChoice(ctx, controller, reader, view.Options)
		case view.Selected != nil:
			next, err = submitFields(ctx, controller, reader, view)
		default:
			return fmt.Errorf("flow paused without actionable input")
		}
		if err != nil {
			return err
		}
		view = next
	}
	printMessages(view.Messages)
	return finish(controller, options)
}

func submitChoice(ctx context.Context, controller *authflow.Controller, reader *bufio.Scanner, options []schema.Authenticator) (*authflow.StepView, error) {
	fmt.Println("Sign-in options:")
	for i := range options {
		fmt.Printf("  %d) %s\n", i+1, displayName(&options[i]))
	}
	var chosen *schema.Authenticator
	for chosen == nil {
		line, ok := promptLine(reader, fmt.Sprintf("Choose [1-%d]", len(options)))
		if !ok {
			return nil, fmt.Errorf("input closed")
		}
		if index, err := strconv.Atoi(strings.TrimSpace(line)); err == nil && index >= 1 && index <= len(options) {
			chosen = &options[index-1]
		}
	}
	inputs, err := collectInputs(reader, chosen)
	if err != nil {
		return nil, err
	}
	return controller.Submit(ctx, chosen.AuthenticatorID, inputs)
}

func submitFields(ctx context.Context, controller *authflow.Controller, reader *bufio.Scanner, view *authflow.StepView) (*authflow.StepView, error) {
	inputs := map[string]string{}
	for _, field := range view.Fields {
		label := field.DisplayName
		if label == "" {
			label = field.Name
		}
		value, ok := promptLine(reader, label)
		if !ok {
			return nil, fmt.Errorf("input closed")
		}
		inputs[field.Name] = value
	}
	return controller.Submit(ctx, view.Selected.AuthenticatorID, inputs)
}

// collectInputs prompts for a chosen authenticator's declared parameters.
// Redirect authenticators declare none, so the submission proceeds straight
// to the browser hand-off.
func collectInputs(reader *bufio.Scanner, a *schema.Authenticator) (map[string]string, error) {
	inputs := map[string]string{}
	for _, param := range a.Params {
		label := param.DisplayName
		if label == "" {
			label = param.Name
		}
		value, ok := promptLine(reader, label)
		if !ok {
			return nil, fmt.Errorf("input closed")
		}
		inputs[param.Name] = value
	}
	return inputs, nil
}

func finish(controller *authflow.Controller, options *Options) error {
	result := controller.Result()
	if result == nil {
		return fmt.Errorf("flow completed without auth data")
	}
	if result.Assertion != "" {
		claims, err := authflow.DecodeAssertion(result.Assertion)
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %v\n", claims["sub"])
		if options.TokenPath != "" {
			tokens := store.NewFileStore(options.TokenPath)
			return tokens.AddToken(options.Application, &oauth2.Token{
				AccessToken: result.Assertion,
				TokenType:   "Bearer",
			})
		}
		return nil
	}
	fmt.Printf("Received authorization code for state %v\n", result.State)
	return nil
}

func printMessages(messages []schema.Message) {
	for _, msg := range messages {
		fmt.Printf("[%s] %s\n", msg.Type, msg.Text)
	}
}

func displayName(a *schema.Authenticator) string {
	if a.IDP != "" {
		return fmt.Sprintf("%s (%s)", a.AuthenticatorID, a.IDP)
	}
	return a.AuthenticatorID
}

func promptLine(reader *bufio.Scanner, label string) (string, bool) {
	fmt.Printf("%s: ", label)
	if !reader.Scan() {
		return "", false
	}
	return reader.Text(), true
}
