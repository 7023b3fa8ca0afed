package adapters

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/ktr0731/go-fuzzyfinder"
	"golang.org/x/term"

	"rnlink/internal/ports"
	"rnlink/internal/types"
)

// TerminalPromptAdapter asks questions on a line based terminal. When In is
// an interactive terminal, passwords are read without echo and lists open
// a fuzzy finder.
type TerminalPromptAdapter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

func NewTerminalPromptAdapter() *TerminalPromptAdapter {
	return NewTerminalPromptAdapterWithIO(os.Stdin, os.Stderr)
}

func NewTerminalPromptAdapterWithIO(in io.Reader, out io.Writer) *TerminalPromptAdapter {
	return &TerminalPromptAdapter{In: in, Out: out, reader: bufio.NewReader(in)}
}

func (a *TerminalPromptAdapter) Ask(ctx context.Context, params []types.Param) ([]types.ParamValue, error) {
	answers := make([]types.ParamValue, 0, len(params))
	for _, param := range params {
		if ctx.Err() != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("prompt canceled").
				WithCause(ctx.Err())
		}
		value, err := a.ask(param)
		if err != nil {
			return nil, err
		}
		answers = append(answers, types.ParamValue{Name: param.Name, Value: value})
	}
	return answers, nil
}

func (a *TerminalPromptAdapter) Confirm(ctx context.Context, message string) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return a.confirm(message, false)
}

func (a *TerminalPromptAdapter) ask(param types.Param) (string, error) {
	message := param.Message
	if message == "" {
		message = param.Name
	}
	fallback := ""
	if param.Default != nil {
		fallback = fmt.Sprint(param.Default)
	}
	switch param.Type {
	case types.ParamTypeConfirm:
		ok, err := a.confirm(message, fallback == "true")
		if err != nil {
			return "", err
		}
		return fmt.Sprint(ok), nil
	case types.ParamTypePassword:
		return a.password(message)
	case types.ParamTypeList:
		return a.choose(message, param.Choices, fallback)
	default:
		return a.input(message, fallback)
	}
}

func (a *TerminalPromptAdapter) input(message string, fallback string) (string, error) {
	if fallback != "" {
		fmt.Fprintf(a.Out, "%s (%s): ", message, fallback)
	} else {
		fmt.Fprintf(a.Out, "%s: ", message)
	}
	line, err := a.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return fallback, nil
	}
	return line, nil
}

func (a *TerminalPromptAdapter) confirm(message string, fallback bool) (bool, error) {
	hint := "y/N"
	if fallback {
		hint = "Y/n"
	}
	fmt.Fprintf(a.Out, "%s [%s]: ", message, hint)
	line, err := a.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "":
		return fallback, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (a *TerminalPromptAdapter) password(message string) (string, error) {
	fmt.Fprintf(a.Out, "%s: ", message)
	if fd, ok := terminalFd(a.In); ok {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(a.Out)
		if err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to read password").
				WithCause(err)
		}
		return string(secret), nil
	}
	return a.readLine()
}

func (a *TerminalPromptAdapter) choose(message string, choices []string, fallback string) (string, error) {
	if len(choices) == 0 {
		return a.input(message, fallback)
	}
	if _, ok := terminalFd(a.In); ok {
		idx, err := fuzzyfinder.Find(choices, func(i int) string {
			return choices[i]
		}, fuzzyfinder.WithPromptString(message+"> "))
		if err != nil {
			if err == fuzzyfinder.ErrAbort {
				return fallback, nil
			}
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("fuzzy finder failed").
				WithCause(err)
		}
		return choices[idx], nil
	}
	fmt.Fprintf(a.Out, "%s [%s]\n", message, strings.Join(choices, ", "))
	for {
		value, err := a.input("choice", fallback)
		if err != nil {
			return "", err
		}
		for _, choice := range choices {
			if choice == value {
				return value, nil
			}
		}
		fmt.Fprintf(a.Out, "%q is not one of the choices\n", value)
	}
}

func (a *TerminalPromptAdapter) readLine() (string, error) {
	if a.reader == nil {
		a.reader = bufio.NewReader(a.In)
	}
	line, err := a.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to read answer").
			WithCause(err)
	}
	return strings.TrimSpace(line), nil
}

func terminalFd(r io.Reader) (int, bool) {
	file, ok := r.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(file.Fd())
	return fd, term.IsTerminal(fd)
}

var _ ports.PrompterPort = (*TerminalPromptAdapter)(nil)
