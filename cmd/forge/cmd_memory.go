package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"patternforge/internal/memory"
)

// todoCmd manages the TODO list memory file.
var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage the TODO list",
	RunE:  runTodoList,
}

var todoAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a todo item",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if err := memory.New(workspace, cfg.Memory).AddTodo(text); err != nil {
			return err
		}
		fmt.Printf("added: %s\n", text)
		return nil
	},
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open todo items",
	RunE:  runTodoList,
}

var todoDoneCmd = &cobra.Command{
	Use:   "done [number]",
	Short: "Mark an open todo item complete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid todo number %q", args[0])
		}
		if err := memory.New(workspace, cfg.Memory).CompleteTodo(n); err != nil {
			return err
		}
		fmt.Printf("completed todo %d\n", n)
		return nil
	},
}

// decisionCmd appends to the decision log.
var decisionCmd = &cobra.Command{
	Use:   "decision [text]",
	Short: "Log a decision with a timestamp",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if err := memory.New(workspace, cfg.Memory).LogDecision(text); err != nil {
			return err
		}
		fmt.Printf("logged: %s\n", text)
		return nil
	},
}

var noteBody string

// noteCmd appends a dated section to the notes file.
var noteCmd = &cobra.Command{
	Use:   "note [heading]",
	Short: "Add a dated note section",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		heading := strings.Join(args, " ")
		if err := memory.New(workspace, cfg.Memory).AddNote(heading, noteBody); err != nil {
			return err
		}
		fmt.Printf("noted: %s\n", heading)
		return nil
	},
}

func init() {
	todoCmd.AddCommand(todoAddCmd)
	todoCmd.AddCommand(todoListCmd)
	todoCmd.AddCommand(todoDoneCmd)

	noteCmd.Flags().StringVar(&noteBody, "body", "", "Note body text")
}

func runTodoList(cmd *cobra.Command, args []string) error {
	open, err := memory.New(workspace, cfg.Memory).OpenTodos()
	if err != nil {
		return err
	}
	if len(open) == 0 {
		fmt.Println("no open todo items")
		return nil
	}
	for i, td := range open {
		fmt.Printf("%d. %s\n", i+1, td.Text)
	}
	return nil
}
