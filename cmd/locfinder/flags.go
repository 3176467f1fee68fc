package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Overland-East-Bay/location-finder-api/internal/resultset"
)

type options struct {
	ServerURL     string
	SubjectHeader string
	Subject       string

	Location string
	Radius   float64
	Unit     string

	Name        string
	ProfileType string
	Page        int
	PageSize    int

	ShowHelp bool
}

const usage = `Usage: locfinder [options] LOCATION

Search for members near LOCATION and print one page of results.

Options:
  -s, --server URL         API base URL (default http://localhost:8080, env LOCFINDER_SERVER)
      --subject SUBJECT    member subject to search as (env LOCFINDER_SUBJECT)
      --subject-header H   header carrying the subject (default X-Member-Subject)
  -r, --radius N           search radius (default 50)
  -u, --unit km|mi         distance unit (default km)
  -n, --name TEXT          only members whose name contains TEXT
  -t, --type TYPE          only members with this profile type
  -p, --page N             page to print (default 1)
      --page-size N        entries per page (default 10)
  -h, --help               show this help
`

func parseFlags(args []string, getenv func(string) string) (*options, error) {
	opts := &options{
		ServerURL:     getenv("LOCFINDER_SERVER"),
		Subject:       getenv("LOCFINDER_SUBJECT"),
		SubjectHeader: "X-Member-Subject",
		Radius:        50,
		Page:          1,
		PageSize:      resultset.DefaultPageSize,
	}
	if opts.ServerURL == "" {
		opts.ServerURL = "http://localhost:8080"
	}

	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]

		value := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires an argument", arg)
			}
			i++
			return args[i], nil
		}

		switch arg {
		case "-h", "--help":
			opts.ShowHelp = true
			return opts, nil
		case "-s", "--server":
			v, err := value()
			if err != nil {
				return nil, err
			}
			opts.ServerURL = v
		case "--subject":
			v, err := value()
			if err != nil {
				return nil, err
			}
			opts.Subject = v
		case "--subject-header":
			v, err := value()
			if err != nil {
				return nil, err
			}
			opts.SubjectHeader = v
		case "-r", "--radius":
			v, err := value()
			if err != nil {
				return nil, err
			}
			r, err := strconv.ParseFloat(v, 64)
			if err != nil || r <= 0 {
				return nil, fmt.Errorf("invalid radius value: %s", v)
			}
			opts.Radius = r
		case "-u", "--unit":
			v, err := value()
			if err != nil {
				return nil, err
			}
			opts.Unit = strings.ToLower(v)
			if opts.Unit != "km" && opts.Unit != "mi" {
				return nil, fmt.Errorf("invalid unit value: %s (must be km or mi)", v)
			}
		case "-n", "--name":
			v, err := value()
			if err != nil {
				return nil, err
			}
			opts.Name = v
		case "-t", "--type":
			v, err := value()
			if err != nil {
				return nil, err
			}
			opts.ProfileType = v
		case "-p", "--page":
			v, err := value()
			if err != nil {
				return nil, err
			}
			p, err := strconv.Atoi(v)
			if err != nil || p < 1 {
				return nil, fmt.Errorf("invalid page value: %s", v)
			}
			opts.Page = p
		case "--page-size":
			v, err := value()
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid page-size value: %s", v)
			}
			opts.PageSize = n
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown option: %s", arg)
			}
			positional = append(positional, arg)
		}
	}

	opts.Location = strings.TrimSpace(strings.Join(positional, " "))
	if opts.Location == "" {
		return nil, fmt.Errorf("missing LOCATION argument")
	}
	return opts, nil
}
