// Command simdiskctl is an offline operator tool for inspecting and
// auditing a simdisk image without running the dispatcher.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"simdisk/fs"
)

func main() {
	app := &cli.App{
		Name:  "simdiskctl",
		Usage: "inspect a simdisk disk image offline",
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "print block and inode usage",
				ArgsUsage: "<image-path>",
				Action:    runInfo,
			},
			{
				Name:      "fsck",
				Usage:     "audit bitmap/inode-table consistency",
				ArgsUsage: "<image-path>",
				Action:    runFsck,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("simdiskctl: %v", err)
	}
}

func runInfo(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("info requires an image path", 1)
	}
	fsys, err := fs.Load(path)
	if err != nil {
		return err
	}
	defer fsys.Close()
	fmt.Print(fsys.Stat().String())
	return nil
}

func runFsck(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("fsck requires an image path", 1)
	}
	fsys, err := fs.Load(path)
	if err != nil {
		return err
	}
	defer fsys.Close()

	report, err := fsys.Check()
	if err != nil {
		fmt.Println(err)
		return cli.Exit("inconsistencies found", 1)
	}
	fmt.Println(report)
	return nil
}
