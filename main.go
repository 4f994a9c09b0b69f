package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"kbconsole/internal/app"
	"kbconsole/internal/mock"
	"kbconsole/sdk/console"
)

func main() {
	cliApp := &cli.App{
		Name:      "kbconsole",
		Usage:     "Admin console for the knowledge base platform",
		ArgsUsage: "[experience-id]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "Backend server URL",
				Value:   "http://localhost:8000",
				EnvVars: []string{"KBCONSOLE_SERVER"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Bearer token for authenticated backends",
				EnvVars: []string{"KBCONSOLE_TOKEN"},
			},
			&cli.StringFlag{
				Name:  "params",
				Usage: "Experience parameters as a JSON object",
			},
			&cli.BoolFlag{
				Name:  "mock",
				Usage: "Run the mock backend instead of the TUI",
			},
			&cli.IntFlag{
				Name:  "mock-port",
				Usage: "Port for the mock backend",
				Value: 8000,
			},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.Bool("mock") {
		return mock.NewServer().ListenAndServe(c.Int("mock-port"))
	}

	experienceID := c.Args().First()
	if experienceID == "" {
		experienceID = "weekly-digest"
	}

	var params map[string]any
	if raw := c.String("params"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return fmt.Errorf("invalid --params: %w", err)
		}
	}

	opts := []console.ClientOption{
		console.WithTimeout(30 * time.Second),
	}
	if token := c.String("token"); token != "" {
		opts = append(opts, console.WithToken(token))
	}
	client := console.NewClient(c.String("server"), opts...)

	model := app.New(client, experienceID, params)
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(p)

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
