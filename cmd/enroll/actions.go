package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	routerenroll "github.com/kaifufi/router-enroll-go"
)

const zeroWord = "0x0000000000000000000000000000000000000000000000000000000000000000"

type session struct {
	client *routerenroll.Client
	table  routerenroll.RouterTable
	origin string
	logger *zap.Logger
}

// openSession builds the client shared by all commands. Only sign needs --private-key;
// without it the client is read-only.
func openSession(c *cli.Context, sign bool) (*session, error) {
	logger := newLogger(c.GlobalString(flagLogLevel), errWriter(c))

	required := []string{flagRouters, flagOrigin}
	if sign {
		required = append([]string{flagPrivateKey}, required...)
	}
	for _, name := range required {
		if c.GlobalString(name) == "" {
			return nil, fmt.Errorf("--%s is required", name)
		}
	}

	chainInfo, err := routerenroll.LookupChain(c.GlobalString(flagChain))
	if err != nil {
		return nil, err
	}

	table, err := routerenroll.LoadRouterTable(c.GlobalString(flagRouters))
	if err != nil {
		return nil, err
	}

	gasPrice, err := parseBigInt(flagGasPrice, c.GlobalString(flagGasPrice))
	if err != nil {
		return nil, err
	}
	nonce, err := parseBigInt(flagNonce, c.GlobalString(flagNonce))
	if err != nil {
		return nil, err
	}

	client, err := routerenroll.NewClient(routerenroll.ClientConfig{
		PrivateKey: c.GlobalString(flagPrivateKey),
		ReadOnly:   !sign,
		Chain:      chainInfo,
		RPCURL:     c.GlobalString(flagRPCURL),
		Logger:     logger,
		GasPrice:   gasPrice,
		GasLimit:   c.GlobalUint64(flagGasLimit),
		Nonce:      nonce,
	})
	if err != nil {
		return nil, err
	}

	if client.ReadOnly() {
		logger.Info("reader ready", zap.String("chain", chainInfo.Name))
	} else {
		logger.Info("signer ready",
			zap.String("signer", client.SignerAddress()),
			zap.String("chain", chainInfo.Name),
			zap.String("currency", chainInfo.NativeCurrency.Symbol),
		)
	}

	return &session{
		client: client,
		table:  table,
		origin: c.GlobalString(flagOrigin),
		logger: logger,
	}, nil
}

func (s *session) close() {
	s.client.Close()
	_ = s.logger.Sync()
}

func enrollAction(c *cli.Context) error {
	s, err := openSession(c, true)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if delay := c.GlobalDuration(flagDelay); delay > 0 {
		s.logger.Info("waiting before submission", zap.Duration("delay", delay))
		if err := routerenroll.Delay(ctx, delay); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
	}

	result, err := s.client.SetEnroll(ctx, s.table, s.origin)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if !result.OK() {
		return cli.NewExitError(fmt.Sprintf("enrollment failed (%s): %v", result.Kind, result.Err), 1)
	}

	fmt.Fprintln(c.App.Writer, result.TxHash)
	return nil
}

func paramsAction(c *cli.Context) error {
	s, err := openSession(c, false)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer s.close()

	params, err := s.client.CreateParamsForTx(s.table, s.origin)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	out, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}

func showAction(c *cli.Context) error {
	s, err := openSession(c, false)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params, err := s.client.CreateParamsForTx(s.table, s.origin)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	contract, _ := s.table.Lookup(s.origin)

	domains, err := s.client.EnrolledDomains(ctx, contract)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	s.logger.Info("enrolled domains", zap.String("contract", contract), zap.Uint32s("domains", domains))

	missing := 0
	for i, chainID := range params.ChainIDs {
		enrolled, err := s.client.RemoteRouter(ctx, contract, chainID)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}

		fields := []zap.Field{
			zap.Uint32("remote_chain_id", chainID),
			zap.String("expected", params.Addresses[i]),
			zap.String("enrolled", enrolled),
		}
		switch {
		case strings.EqualFold(enrolled, params.Addresses[i]):
			s.logger.Info("router enrolled", fields...)
		case enrolled == zeroWord:
			missing++
			s.logger.Warn("router not enrolled", fields...)
		default:
			missing++
			s.logger.Warn("router mismatch", fields...)
		}
		fmt.Fprintf(c.App.Writer, "%d\t%s\n", chainID, enrolled)
	}

	if missing > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d routers not enrolled as expected", missing, len(params.ChainIDs)), 1)
	}
	return nil
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

func parseBigInt(name, value string) (*big.Int, error) {
	if value == "" {
		return nil, nil
	}
	n, ok := new(big.Int).SetString(value, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("--%s must be a non-negative decimal integer, got %q", name, value)
	}
	return n, nil
}
