package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"zovida/internal/assistant"
)

func newChatCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the AI health assistant",
		Long: `Talk to the AI health assistant. With a message argument, sends it and
prints the reply. Without arguments, starts an interactive session; exit with
"quit" or Ctrl-D.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				client, err := a.assistantClient()
				if err != nil {
					return err
				}
				if len(args) > 0 {
					return chatOnce(cmd, client, strings.Join(args, " "))
				}
				return chatLoop(cmd, client)
			})
		},
	}
}

func chatOnce(cmd *cobra.Command, client *assistant.Client, message string) error {
	reply, err := client.Chat(cmd.Context(), message, nil)
	if err != nil {
		return err
	}
	printReply(cmd, reply)
	return nil
}

func chatLoop(cmd *cobra.Command, client *assistant.Client) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Chatting with Zovi. Type \"quit\" to leave.")

	var history []assistant.Message
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "quit" || message == "exit" {
			return nil
		}

		reply, err := client.Chat(cmd.Context(), message, history)
		if err != nil {
			return err
		}
		printReply(cmd, reply)
		history = append(history,
			assistant.Message{Role: "user", Content: message},
			assistant.Message{Role: "assistant", Content: reply.Text},
		)
	}
}

func printReply(cmd *cobra.Command, reply assistant.Reply) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, reply.Text)
	for _, target := range reply.Navigate {
		switch target {
		case assistant.NavigateDoctors:
			fmt.Fprintln(out, "(Tip: book a visit with `zovida appointments add`)")
		case assistant.NavigateSOS:
			fmt.Fprintln(out, "(If this is an emergency, call your local emergency number now)")
		}
	}
}
