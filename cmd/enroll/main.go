// Command enroll registers the routers of other chains on one chain's router contract.
package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"

	routerenroll "github.com/kaifufi/router-enroll-go"
)

const (
	flagPrivateKey = "private-key"
	flagChain      = "chain"
	flagRPCURL     = "rpc-url"
	flagRouters    = "routers"
	flagOrigin     = "origin"
	flagLogLevel   = "log-level"
	flagDelay      = "delay"
	flagGasPrice   = "gas-price-wei"
	flagGasLimit   = "gas-limit"
	flagNonce      = "nonce"
)

func main() {
	// A missing .env is fine, the variables may be set externally
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "enroll"
	app.Usage = "enroll remote routers on a router contract"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   flagPrivateKey,
			Usage:  "signer private key, hex with or without 0x, required by enroll",
			EnvVar: "ENROLL_PRIVATE_KEY",
		},
		cli.StringFlag{
			Name:   flagChain,
			Usage:  "chain to submit on, one of " + strings.Join(routerenroll.ChainNames(), ", "),
			EnvVar: "ENROLL_CHAIN",
			Value:  "arbitrum",
		},
		cli.StringFlag{
			Name:   flagRPCURL,
			Usage:  "override the chain's default RPC endpoint",
			EnvVar: "ENROLL_RPC_URL",
		},
		cli.StringFlag{
			Name:   flagRouters,
			Usage:  "YAML or JSON file mapping chain id to router address",
			EnvVar: "ENROLL_ROUTERS",
		},
		cli.StringFlag{
			Name:   flagOrigin,
			Usage:  "chain id of the router receiving the enrollment",
			EnvVar: "ENROLL_ORIGIN",
		},
		cli.StringFlag{
			Name:   flagLogLevel,
			Usage:  "debug, info, warn or error",
			EnvVar: "LOG_LEVEL",
			Value:  "info",
		},
		cli.DurationFlag{
			Name:   flagDelay,
			Usage:  "pause before submitting",
			EnvVar: "ENROLL_DELAY",
		},
		cli.StringFlag{
			Name:   flagGasPrice,
			Usage:  "fixed legacy gas price in wei",
			EnvVar: "ENROLL_GAS_PRICE_WEI",
		},
		cli.Uint64Flag{
			Name:   flagGasLimit,
			Usage:  "fixed gas limit, estimated when zero",
			EnvVar: "ENROLL_GAS_LIMIT",
		},
		cli.StringFlag{
			Name:   flagNonce,
			Usage:  "fixed nonce, pending nonce when empty",
			EnvVar: "ENROLL_NONCE",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:   "enroll",
			Usage:  "submit enrollRemoteRouters for every other chain in the router table",
			Action: enrollAction,
		},
		{
			Name:   "params",
			Usage:  "print the enrollRemoteRouters arguments without submitting",
			Action: paramsAction,
		},
		{
			Name:   "show",
			Usage:  "compare the routers enrolled on chain with the router table",
			Action: showAction,
		},
	}

	return app
}
