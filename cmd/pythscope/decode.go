package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pythscope/internal/config"
	"pythscope/internal/oracle"
)

func runDecode(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDecode(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	input, err := readInput(cfg.In, cmd.InOrStdin())
	if err != nil {
		return err
	}

	data, err := decodeInput(input, cfg.Encoding)
	if err != nil {
		return err
	}

	acct, err := oracle.Parse(data)
	if err != nil {
		return err
	}
	if !acct.HasMagic() {
		logger.Warn("unexpected account magic",
			zap.Uint32("magic", acct.Magic),
			zap.Uint32("want", oracle.Magic),
		)
	}

	logger.Debug("account decoded",
		zap.Int("bytes", len(data)),
		zap.Int32("exponent", acct.Exponent),
		zap.Int("components", len(acct.PriceComponents)),
	)

	return render(cmd.OutOrStdout(), cfg.Format, acct.View())
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// decodeInput turns a text or binary dump into account bytes.
func decodeInput(input []byte, encoding string) ([]byte, error) {
	switch encoding {
	case config.EncodingRaw:
		return input, nil
	case config.EncodingHex:
		text := strings.TrimSpace(string(input))
		if !strings.HasPrefix(text, "0x") && !strings.HasPrefix(text, "0X") {
			text = "0x" + text
		}
		data, err := hexutil.Decode(text)
		if err != nil {
			return nil, fmt.Errorf("decode hex input: %w", err)
		}
		return data, nil
	case config.EncodingBase64:
		text := string(bytes.Join(bytes.Fields(input), nil))
		data, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("decode base64 input: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}
