// Command simdiskd hosts a simdisk image: it formats or loads the image
// file, then runs the request dispatcher until interrupted.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"simdisk/dispatch"
	"simdisk/fs"
	"simdisk/mailbox"
)

const defaultQueueDepth = 64

func main() {
	app := &cli.App{
		Name:  "simdiskd",
		Usage: "host a simdisk disk image",
		Commands: []*cli.Command{
			{
				Name:      "format",
				Usage:     "create a new disk image and bootstrap its file system",
				ArgsUsage: "<image-path>",
				Action:    runFormat,
			},
			{
				Name:      "serve",
				Usage:     "load an existing disk image and start the dispatcher",
				ArgsUsage: "<image-path>",
				Action:    runServe,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("simdiskd: %v", err)
	}
}

func runFormat(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("format requires an image path", 1)
	}
	fsys, err := fs.Format(path)
	if err != nil {
		return err
	}
	return fsys.Close()
}

func runServe(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("serve requires an image path", 1)
	}
	fsys, err := fs.Load(path)
	if err != nil {
		return err
	}
	defer fsys.Close()

	transport := mailbox.NewTransport(defaultQueueDepth)
	d := dispatch.New(fsys, transport)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return d.Ingress(groupCtx) })
	group.Go(func() error { return d.Worker(groupCtx) })

	if err := group.Wait(); err != nil && groupCtx.Err() == nil {
		return err
	}
	return nil
}
