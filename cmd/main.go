package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"positionalerts/cmd/check"
	"positionalerts/cmd/cronsecret"
	"positionalerts/cmd/loop"
	"positionalerts/cmd/serve"
	"positionalerts/cmd/vapid"
)

var Version string

func main() {
	// Optional .env in the working directory; real env vars win.
	_ = godotenv.Load()
	setupLogger()

	app := cli.NewApp()
	app.Name = "positionalerts"
	app.Usage = "Position tracker with profit alerts over web push"
	app.Version = Version

	app.Commands = []cli.Command{
		serveCMD,
		checkCMD,
		loopCMD,
		vapidCMD,
		cronSecretCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogger() {
	level, err := logrus.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the HTTP API",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Serve orders, subscriptions and the cron trigger`,
	}
	checkCMD = cli.Command{
		Name:        "check",
		Usage:       "run one alert cycle",
		Action:      checkAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run one alert cycle and print the JSON result`,
	}
	loopCMD = cli.Command{
		Name:        "loop",
		Usage:       "run alert cycles every LOOP_PERIOD",
		Action:      loopAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the alert cycle on a fixed period`,
	}
	vapidCMD = cli.Command{
		Name:        "vapid",
		Usage:       "generate a VAPID key pair",
		Action:      vapidAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Print VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY lines`,
	}
	cronSecretCMD = cli.Command{
		Name:        "cronsecret",
		Usage:       "hash a secret for the cron trigger",
		Action:      cronSecretAction,
		ArgsUsage:   "[secret]",
		Flags:       []cli.Flag{},
		Description: `Print CRON_SECRET and its bcrypt CRON_SECRET_HASH; a random secret is generated when none is given`,
	}
)

func serveAction(_ *cli.Context) error {
	logrus.WithField("cmd", "serve").Info("Starting serve CMD")
	s := &serve.Serve{}
	if err := s.Start(); err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}
	return nil
}

func checkAction(_ *cli.Context) error {
	logrus.WithField("cmd", "check").Debug("Starting check CMD")
	return (&check.Check{Out: os.Stdout}).Start()
}

func loopAction(_ *cli.Context) error {
	logrus.WithField("cmd", "loop").Info("Starting loop CMD")
	l := &loop.Loop{}
	if err := l.Start(); err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}
	return nil
}

func vapidAction(_ *cli.Context) error {
	return (&vapid.Vapid{Out: os.Stdout}).Start()
}

func cronSecretAction(c *cli.Context) error {
	return (&cronsecret.CronSecret{Out: os.Stdout}).Start(c.Args().First())
}
