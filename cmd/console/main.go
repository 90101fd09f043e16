package main

import (
	"flag"
	"io"
	"os"

	"employee_system/internal/client"
	"employee_system/internal/console"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

func main() {
	apiURL := flag.String("api", envOr("EMPLOYEE_API_URL", "http://localhost:8080"), "employee API base URL")
	tokenPath := flag.String("token-file", client.DefaultTokenPath(), "where the session token is kept between runs")
	logPath := flag.String("log", "", "write logs to this file, discarded when empty")
	flag.Parse()

	// The terminal belongs to the UI
	logrus.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			logrus.Fatalf("failed to open log file: %v", err)
		}
		defer f.Close()
		logrus.SetOutput(f)
	}

	session := client.NewSession(client.New(*apiURL, nil), client.NewTokenFile(*tokenPath))
	p := tea.NewProgram(console.NewModel(session), tea.WithAltScreen())
	session.OnChange(func(st client.State) {
		go p.Send(console.SessionChangedMsg{State: st})
	})

	if _, err := p.Run(); err != nil {
		logrus.SetOutput(os.Stderr)
		logrus.Fatalf("console failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
