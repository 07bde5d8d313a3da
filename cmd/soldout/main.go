// Command soldout converts a markdown document to XHTML or an mdoc
// manual page.
package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/faelys/soldout-go"
	"github.com/faelys/soldout-go/manpage"
	"github.com/faelys/soldout-go/xhtml"
)

var log = logrus.New()

func main() {
	app := &cli.App{
		Name:  "soldout",
		Usage: "render a markdown document as XHTML or an mdoc manual page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: "xhtml",
				Usage: "output format: xhtml or man",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "document or manual page title",
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "manual page date (format: January 2, 2006); defaults to now",
			},
			&cli.IntFlag{
				Name:  "section",
				Value: 1,
				Usage: "manual page section",
			},
			&cli.BoolFlag{
				Name:  "autolink",
				Usage: "recognize bare URLs and email addresses as links",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Error("soldout: failed")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	input, title, err := readInput(c)
	if err != nil {
		return errors.Wrap(err, "reading input")
	}

	var ext soldout.Extension
	if c.Bool("autolink") {
		ext |= soldout.ExtAutolink
	}

	var output []byte
	switch strings.ToLower(c.String("format")) {
	case "xhtml", "":
		output, err = xhtml.Render(input, ext, xhtml.Options{Title: title})
		if err != nil {
			return errors.Wrap(err, "rendering xhtml")
		}
	case "man":
		date, err := parseDate(c.String("date"))
		if err != nil {
			return errors.Wrap(err, "parsing date")
		}
		output = manpage.Render(input, ext, manpage.Metadata{
			Title:   title,
			Section: c.Int("section"),
			Date:    date,
		})
	default:
		return errors.Errorf("unknown format %q", c.String("format"))
	}

	if _, err := os.Stdout.Write(output); err != nil {
		return errors.Wrap(err, "writing output")
	}
	return nil
}

// readInput reads the document body from the positional file argument
// or stdin, and derives a default title from the filename when --title
// was not given.
func readInput(c *cli.Context) ([]byte, string, error) {
	title := c.String("title")

	if path := c.Args().First(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, "", errors.Wrapf(err, "opening %q", path)
		}
		defer f.Close()

		body, err := io.ReadAll(f)
		if err != nil {
			return nil, "", errors.Wrapf(err, "reading %q", path)
		}
		if title == "" {
			base := filepath.Base(path)
			title = strings.TrimSuffix(base, filepath.Ext(base))
		}
		return body, title, nil
	}

	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, "", errors.Wrap(err, "reading stdin")
	}
	if title == "" {
		log.Warn("no --title given and reading from stdin; manual pages will have an empty title")
	}
	return body, title, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("January 2, 2006", s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid --date %q", s)
	}
	return t, nil
}
