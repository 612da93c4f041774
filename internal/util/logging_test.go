package util

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

func TestSetCliLogLevel(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want zerolog.Level
	}{
		{name: "default", args: []string{"test"}, want: zerolog.InfoLevel},
		{name: "verbose", args: []string{"test", "--verbose"}, want: zerolog.DebugLevel},
		{name: "very verbose", args: []string{"test", "--very-verbose"}, want: zerolog.TraceLevel},
		{name: "very verbose wins", args: []string{"test", "--verbose", "--very-verbose"}, want: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Name: "test",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "verbose"},
					&cli.BoolFlag{Name: "very-verbose"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					SetCliLogLevel(c)
					return nil
				},
			}

			if err := cmd.Run(context.Background(), tt.args); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := zerolog.GlobalLevel(); got != tt.want {
				t.Errorf("expected level %s, got %s", tt.want, got)
			}
		})
	}
}
