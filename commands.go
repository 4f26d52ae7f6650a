package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, chordCommand, songCommand, diagramCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

// serveCommand runs the HTTP API (also the default when no command is given)
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides PORT)",
			},
		},
		Action: r.Serve,
	}
}

func chordCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "chord",
		Usage:     "Look up the notes of a chord",
		ArgsUsage: "<chord name>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write the keyboard diagram PNG to this file",
			},
		},
		Action: r.Chord,
	}
}

func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "song",
		Usage:     "Find the lyrics-with-chords sheet for a song",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "Print JSON on a single line",
			},
		},
		Action: r.Song,
	}
}

func diagramCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "diagram",
		Usage:     "Render a keyboard diagram for the given notes",
		ArgsUsage: "<note>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output PNG path",
				Value:   "diagram.png",
			},
		},
		Action: r.Diagram,
	}
}
