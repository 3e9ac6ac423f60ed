// Copyright (C) 2024  Markbud sp. z o.o.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/ktr0731/go-fuzzyfinder"
)

// Shell is an interactive shell to inspect stored delivery versions and apply
// operator decisions.
type Shell struct {
	deps     commandDeps
	commands cmdSlice
}

// NewShell creates a new shell instance.
func NewShell(deps commandDeps) *Shell {
	return &Shell{
		deps: deps,
		commands: cmdSlice{
			{
				name: "version",
				help: "Inspect the stored versions of a delivery code.",
				children: cmdSlice{
					{
						name:   "list",
						help:   "List all versions of a delivery code.",
						action: listVersions,
					},
					{
						name:   "show",
						help:   "Show the items of one version.",
						action: showVersion,
					},
					{
						name:   "diff",
						help:   "Compare two versions of a delivery code.",
						action: diffVersions,
					},
				},
			},
			{
				name: "item",
				help: "Apply decisions to single items of the latest version.",
				children: cmdSlice{
					{
						name:   "remove",
						help:   "Remove an item from production planning.",
						action: removeItem,
					},
					{
						name:   "restore",
						help:   "Restore a previously removed item.",
						action: restoreItem,
					},
					{
						name:   "reject",
						help:   "Withdraw an item from production.",
						action: rejectItem,
					},
					{
						name:   "confirm",
						help:   "Confirm an item on behalf of the partner.",
						action: confirmItem,
					},
					{
						name:   "accept",
						help:   "Accept a changed item after reviewing a diff.",
						action: acceptChange,
					},
				},
			},
			{
				name: "decision",
				help: "Inspect the decision audit log.",
				children: cmdSlice{
					{
						name:   "log",
						help:   "Show all decisions recorded for an item.",
						action: decisionLog,
					},
				},
			},
		},
	}
}

// Run starts the shell read loop.
func (s *Shell) Run() error {
	config := readline.Config{
		AutoComplete: readline.NewPrefixCompleter(s.commands.buildCompleters()...),
	}

	rl, err := readline.NewEx(&config)
	if err != nil {
		return err
	}

	defer rl.Close()

	for {
		rl.SetPrompt(">>> ")

		line, err := rl.Readline()
		if err != nil {
			if isUnimportantError(err) {
				return nil
			}

			return err
		}

		args := strings.Fields(line)
		if err := s.handleCommand(rl, args); err != nil && !isUnimportantError(err) {
			fmt.Printf("\nERROR:\n  %s\n\n", err)
		}
	}
}

func isUnimportantError(err error) bool {
	return errors.Is(err, fuzzyfinder.ErrAbort) ||
		errors.Is(err, readline.ErrInterrupt) ||
		errors.Is(err, io.EOF)
}

type cmdFunc func(*cmdContext) error

type cmdSlice []cmdDef

func (s cmdSlice) lookup(args []string) (cmdDef, bool) {
	if len(s) > 0 && len(args) > 0 {
		var (
			head = args[0]
			tail = args[1:]
		)

		for _, cmd := range s {
			if head == cmd.name {
				if len(tail) > 0 {
					return cmd.children.lookup(tail)
				}

				return cmd, true
			}
		}
	}

	return cmdDef{}, false
}

func (s cmdSlice) buildCompleters() []readline.PrefixCompleterInterface {
	var completers []readline.PrefixCompleterInterface

	for _, cmd := range s {
		cmdCompleter := readline.PcItem(cmd.name, cmd.children.buildCompleters()...)
		completers = append(completers, cmdCompleter)
	}

	return completers
}

type cmdDef struct {
	name     string
	help     string
	action   cmdFunc
	children cmdSlice
}

type cmdContext struct {
	context.Context
	commandDeps

	rl        *readline.Instance
	infoLines []string
}

func (c *cmdContext) info(format string, v ...interface{}) {
	text := fmt.Sprintf(format, v...)
	c.infoLines = append(c.infoLines, text)
}

func (c *cmdContext) ask(prompt string) (string, error) {
	return c.askWithDefault(prompt, "")
}

func (c *cmdContext) askWithDefault(prompt, defaultValue string) (string, error) {
	c.rl.HistoryDisable()
	defer c.rl.HistoryEnable()

	c.rl.SetPrompt(prompt)

	for {
		answer, err := c.rl.ReadlineWithDefault(defaultValue)
		if err != nil || len(answer) > 0 {
			return answer, err
		}
	}
}

func (s *Shell) handleCommand(rl *readline.Instance, args []string) error {
	cmd, ok := s.commands.lookup(args)
	if ok {
		if cmd.action != nil {
			return s.executeCommand(rl, cmd)
		}

		printCommandHelp(cmd)
	} else {
		printCommandUnknown(s.commands, args)
	}

	return nil
}

func (s *Shell) executeCommand(rl *readline.Instance, cmd cmdDef) error {
	cmdCtx := cmdContext{
		Context:     context.Background(),
		commandDeps: s.deps,
		rl:          rl,
	}

	if err := cmd.action(&cmdCtx); err != nil {
		return err
	}

	if len(cmdCtx.infoLines) > 0 {
		fmt.Println()

		for _, infoLine := range cmdCtx.infoLines {
			fmt.Print("  ")
			fmt.Println(infoLine)
		}

		fmt.Println()
	}

	return nil
}

func printCommandUnknown(cmds cmdSlice, args []string) {
	fmt.Printf("\n  Unknown command %q\n", strings.Join(args, " "))
	printCommandUsage(cmds)
}

func printCommandHelp(cmd cmdDef) {
	fmt.Printf("\n  %s\n", cmd.help)
	printCommandUsage(cmd.children)
}

func printCommandUsage(cmds cmdSlice) {
	if len(cmds) > 0 {
		fmt.Println()
		fmt.Println("Commands:")

		for _, cmd := range cmds {
			fmt.Printf("  %-10s  %s\n", cmd.name, cmd.help)
		}
	}

	fmt.Println()
}
