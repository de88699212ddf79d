package cli

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ctdl/pkg/domain/model"
)

// contentFlags holds the options of a single download run
type contentFlags struct {
	Query     string
	FileType  string
	Limit     int
	Directory string
	Parallel  bool
	Yes       bool

	Available bool
	Threats   bool
}

// Flags returns CLI flags for the download run
func (c *contentFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "file_type",
			Aliases:     []string{"f"},
			Usage:       "Specify the extension of files to download.",
			Value:       model.DefaultFileType,
			Destination: &c.FileType,
			Sources:     cli.EnvVars("CTDL_FILE_TYPE"),
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Limit the number of search results (in multiples of 10).",
			Value:       model.DefaultLimit,
			Destination: &c.Limit,
			Sources:     cli.EnvVars("CTDL_LIMIT"),
		},
		&cli.StringFlag{
			Name:        "directory",
			Aliases:     []string{"d"},
			Usage:       "Specify directory where files will be stored.",
			Destination: &c.Directory,
			Sources:     cli.EnvVars("CTDL_DIRECTORY"),
		},
		&cli.BoolFlag{
			Name:        "parallel",
			Aliases:     []string{"p"},
			Usage:       "For parallel downloading.",
			Destination: &c.Parallel,
			Sources:     cli.EnvVars("CTDL_PARALLEL"),
		},
		&cli.BoolFlag{
			Name:        "yes",
			Aliases:     []string{"y"},
			Usage:       "Download high-risk file types without asking.",
			Destination: &c.Yes,
		},
		&cli.BoolFlag{
			Name:        "available",
			Aliases:     []string{"a"},
			Usage:       "Get list of all available filetypes.",
			Destination: &c.Available,
		},
		&cli.BoolFlag{
			Name:        "threats",
			Aliases:     []string{"t"},
			Usage:       "Get list of all common virus carrier filetypes.",
			Destination: &c.Threats,
		},
	}
}

func (c *contentFlags) request() model.ContentRequest {
	return model.ContentRequest{
		Topic:     c.Query,
		FileType:  c.FileType,
		Limit:     c.Limit,
		Directory: c.Directory,
		Parallel:  c.Parallel,
	}
}
