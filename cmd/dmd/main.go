package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	get "github.com/hashicorp/go-getter"
	"github.com/urfave/cli/v2"

	"github.com/OCharnyshevich/voxel-server/pkg/world/block"
)

func main() {
	app := &cli.App{
		Name:  "dmd",
		Usage: "downloads minecraft-data block tables for --block-data",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base", Value: "https://github.com/PrismarineJS/minecraft-data.git", Usage: "base url"},
			&cli.StringFlag{Name: "platform", Value: "pc", Usage: "platform of schemas"},
			&cli.StringFlag{Name: "version", Value: "1.15.2", Usage: "version of schemas"},
			&cli.StringFlag{Name: "o", Value: "./scheme", Usage: "output dir path"},
		},
		Action: download,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func download(c *cli.Context) error {
	out, platform, ver := c.String("o"), c.String("platform"), c.String("version")
	if out == "" || platform == "" || ver == "" {
		return fmt.Errorf("output dir, platform and version are required")
	}

	path := filepath.Join(out, fmt.Sprintf("%s-%s", platform, ver))
	if err := os.RemoveAll(path); err != nil {
		return err
	}

	log.Default().Printf("start downloading schemes %s", path)

	// https://github.com/PrismarineJS/minecraft-data/tree/master/data/pc/1.15.2
	url := fmt.Sprintf("git::%s//data/%s/%s", c.String("base"), platform, ver)
	if err := get.Get(path, url); err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}

	blocks := filepath.Join(path, "blocks.json")
	reg, err := block.LoadRegistry(blocks)
	if err != nil {
		return fmt.Errorf("check block table: %w", err)
	}

	log.Default().Printf("done downloading schemes %s (%d blocks), run the server with --block-data %s", path, reg.Len(), blocks)
	return nil
}
