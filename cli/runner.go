package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	"github.com/viant/detect"
	"github.com/viant/detect/client"
	"github.com/viant/detect/schema"
)

// Run parses args and executes the selected command, writing to stdout
func Run(args []string) error {
	return Execute(context.Background(), args, os.Stdout, zerolog.New(os.Stderr).With().Timestamp().Logger())
}

// Execute runs a command against the backend selected by args
func Execute(ctx context.Context, args []string, stdout io.Writer, logger zerolog.Logger) error {
	options := &Options{}
	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return err
	}
	cli, release, err := detect.NewClient(ctx, options.clientOptions(logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn().Err(err).Msg("failed to release credential store")
		}
	}()

	err = run(ctx, parser.Active.Name, options, cli, stdout)
	if schema.IsUnauthenticated(err) {
		return fmt.Errorf("%w, run: detectctl login", err)
	}
	return err
}

func run(ctx context.Context, command string, options *Options, cli *client.Client, stdout io.Writer) error {
	switch command {
	case "login":
		if options.Login.Username == "" || options.Login.Password == "" {
			return fmt.Errorf("login requires --username and --password")
		}
		credentials, err := cli.Login(ctx, options.Login.Username, options.Login.Password)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Logged in as %v\n", credentials.Subject)
		return nil
	case "logout":
		cli.Logout(ctx)
		fmt.Fprintln(stdout, "Logged out")
		return nil
	case "status":
		return status(cli, stdout)
	case "upload":
		detection, err := cli.UploadAndDetect(ctx, options.Upload.Args.Location)
		if err != nil {
			return err
		}
		renderDetection(stdout, detection)
		return nil
	case "results":
		detections, err := cli.Results(ctx)
		if err != nil {
			return err
		}
		renderResults(stdout, detections)
		return nil
	case "result":
		detection, err := cli.Result(ctx, options.Result.Args.ID)
		if err != nil {
			return err
		}
		renderDetection(stdout, detection)
		return nil
	case "summary":
		summary, err := cli.Summary(ctx, options.Summary.Days)
		if err != nil {
			return err
		}
		renderSummary(stdout, summary)
		return nil
	}
	return fmt.Errorf("unsupported command: %v", command)
}

func status(cli *client.Client, stdout io.Writer) error {
	session := cli.Session()
	state := session.State()
	if !state.IsAuthenticated() {
		fmt.Fprintf(stdout, "State: %v\n", state)
		return nil
	}
	credentials := session.Credentials()
	subject := credentials.Subject
	if subject == "" {
		subject = "unknown"
	}
	fmt.Fprintf(stdout, "State: %v\nUser:  %v\n", state, subject)
	if !credentials.Expiry.IsZero() {
		fmt.Fprintf(stdout, "Access token expires: %v\n", credentials.Expiry.Local().Format(time.DateTime))
	}
	return nil
}
