package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/coursework"
	"github.com/trezcool/studyplanner/core/lms"
	"github.com/trezcool/studyplanner/core/studyplan"
)

const apiKeyEnv = "CANVAS_API_KEY"

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp       = errors.New("help provided")
	errInvalidKey = errors.New("invalid Canvas API key")
)

type commandLine struct {
	connector  lms.Connector
	coursework *coursework.Service
	plans      *studyplan.Service
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  courses -url CANVAS_URL - list active courses")
	fmt.Println("  assignments -url CANVAS_URL - list assignments across active courses")
	fmt.Println("  plan -url CANVAS_URL [-start DATE] [-end DATE] - generate a study plan (defaults to the coming week)")
	fmt.Printf("The API key is read from %s, or prompted for when unset.\n", apiKeyEnv)
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	coursesCmd := flag.NewFlagSet("courses", flag.ContinueOnError)
	coursesURL := canvasURLFlag(coursesCmd)

	assignmentsCmd := flag.NewFlagSet("assignments", flag.ContinueOnError)
	assignmentsURL := canvasURLFlag(assignmentsCmd)

	planCmd := flag.NewFlagSet("plan", flag.ContinueOnError)
	planURL := canvasURLFlag(planCmd)
	planStart := planCmd.String("start", "", "ISO-8601 start of the planning window (default: now)")
	planEnd := planCmd.String("end", "", "ISO-8601 end of the planning window (default: start + 7 days)")

	switch args[1] {
	case "courses":
		acct, _, err := cli.connect(ctx, coursesCmd, args[2:], coursesURL)
		if err != nil {
			return err
		}
		courses, err := cli.coursework.Courses(ctx, acct)
		if err != nil {
			return err
		}
		return cli.print(courses)

	case "assignments":
		acct, usr, err := cli.connect(ctx, assignmentsCmd, args[2:], assignmentsURL)
		if err != nil {
			return err
		}
		assignments, err := cli.coursework.Assignments(ctx, acct, usr.ID)
		if err != nil {
			return err
		}
		return cli.print(assignments)

	case "plan":
		acct, _, err := cli.connect(ctx, planCmd, args[2:], planURL)
		if err != nil {
			return err
		}
		window, err := coursework.ParseWindow(core.CleanString(*planStart), core.CleanString(*planEnd))
		if err != nil {
			return err
		}
		plan, err := cli.plans.Generate(ctx, acct, window)
		if err != nil {
			return err
		}
		return cli.print(plan)

	default:
		cli.printUsage()
		return errHelp
	}
}

func canvasURLFlag(cmd *flag.FlagSet) *string {
	return cmd.String("url", os.Getenv("CANVAS_URL"), "The Canvas instance base URL (default: $CANVAS_URL)")
}

// connect parses the command flags, reads the API key and checks it against Canvas.
func (cli *commandLine) connect(ctx context.Context, cmd *flag.FlagSet, args []string, canvasURL *string) (lms.Client, lms.User, error) {
	if err := cmd.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, lms.User{}, errHelp
		}
		return nil, lms.User{}, err
	}
	baseURL := core.CleanString(*canvasURL)
	if baseURL == "" {
		cmd.Usage()
		return nil, lms.User{}, errHelp
	}

	apiKey := core.CleanString(os.Getenv(apiKeyEnv))
	if apiKey == "" {
		fmt.Print("Enter Canvas API key:")
		key, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return nil, lms.User{}, err
		}
		apiKey = strings.TrimSpace(string(key))
	}
	if apiKey == "" {
		cmd.Usage()
		return nil, lms.User{}, errHelp
	}

	acct := cli.connector.Connect(baseURL, apiKey)
	usr, err := acct.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, lms.ErrInvalidToken) {
			return nil, lms.User{}, errInvalidKey
		}
		return nil, lms.User{}, err
	}
	return acct, usr, nil
}

func (cli *commandLine) print(v interface{}) error {
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
