package commands

import (
	"fmt"

	"github.com/savaki/static-publisher/internal/publisher"
	"github.com/urfave/cli/v2"
)

// ContentTypeCommand returns the content-type command
func ContentTypeCommand() *cli.Command {
	return &cli.Command{
		Name:      "content-type",
		Usage:     "Print the content type each file would be uploaded with",
		ArgsUsage: "FILE...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("at least one file is required")
			}
			for _, name := range c.Args().Slice() {
				fmt.Printf("%s -> %s\n", name, publisher.ContentType(name))
			}
			return nil
		},
	}
}
