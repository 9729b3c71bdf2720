// Command relayd operates a transfer-validator / bridge-relay deployment:
// an HTTP service for verification and execution, plus one-shot commands
// for quotes, balances and nonce scanning.
package main

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/oftbridge/relay/httpapi"
	"github.com/oftbridge/relay/permit2"
	"github.com/oftbridge/relay/relay"
	"github.com/oftbridge/relay/signers/evm"
)

func main() {
	// Missing .env is fine; flags and environment still apply.
	_ = godotenv.Load()

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "relayd",
		Short:         "Permit2 transfer validator and cross-chain bridge relay",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("network", "eip155:84532", "network key (eip155:<chainid>)")
	root.PersistentFlags().String("rpc-url", "", "RPC endpoint (env: RELAY_RPC_URL)")
	root.PersistentFlags().String("private-key", "", "operator private key hex (env: RELAY_PRIVATE_KEY)")
	root.PersistentFlags().String("relay-address", "", "relay contract address override")

	viper.SetEnvPrefix("RELAY")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("network", root.PersistentFlags().Lookup("network"))
	_ = viper.BindPFlag("rpc_url", root.PersistentFlags().Lookup("rpc-url"))
	_ = viper.BindPFlag("private_key", root.PersistentFlags().Lookup("private-key"))
	_ = viper.BindPFlag("relay_address", root.PersistentFlags().Lookup("relay-address"))

	root.AddCommand(newServeCmd())
	root.AddCommand(newQuoteCmd())
	root.AddCommand(newBalanceCmd())
	root.AddCommand(newNonceScanCmd())
	return root
}

// buildRelay connects the signer and resolves the deployment from flags,
// environment and the built-in network table.
func buildRelay(ctx context.Context) (*relay.Relay, *evm.Client, error) {
	rpcURL := viper.GetString("rpc_url")
	if rpcURL == "" {
		return nil, nil, fmt.Errorf("rpc url is required (--rpc-url or RELAY_RPC_URL)")
	}
	privateKey := viper.GetString("private_key")
	if privateKey == "" {
		return nil, nil, fmt.Errorf("private key is required (--private-key or RELAY_PRIVATE_KEY)")
	}

	cfg, known, err := resolveNetworkConfig(viper.GetString("network"), viper.GetString("relay_address"))
	if err != nil {
		return nil, nil, err
	}

	client, err := evm.NewClientFromPrivateKey(ctx, privateKey, rpcURL)
	if err != nil {
		return nil, nil, err
	}

	if !known {
		chainID, err := client.GetChainID(ctx)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		cfg.ChainID = chainID
	}

	r, err := relay.New(client, cfg)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return r, client, nil
}

// resolveNetworkConfig looks the network up in the built-in table and applies
// the relay-address override. A network outside the table has no known relay
// deployment, so it needs an explicit address; its chain id is read from the
// endpoint once connected.
func resolveNetworkConfig(network, override string) (relay.NetworkConfig, bool, error) {
	cfg, known := relay.NetworkConfigs[network]
	if !known && override == "" {
		return relay.NetworkConfig{}, false,
			fmt.Errorf("unknown network %q: no built-in relay deployment, supply --relay-address", network)
	}
	if override != "" {
		cfg.RelayAddress = override
	}
	return cfg, known, nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the relay HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			listen, _ := cmd.Flags().GetString("listen")

			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()

			r, client, err := buildRelay(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			logger.Info("relay configured",
				zap.String("relay", r.Address()),
				zap.String("chainId", r.ChainID().String()),
				zap.String("operator", client.Address()))

			server := httpapi.NewServer(r, logger)
			return server.Run(listen)
		},
	}
	cmd.Flags().String("listen", ":4022", "listen address")
	return cmd
}

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a bridge send",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, _ := cmd.Flags().GetString("token")
			amount, _ := cmd.Flags().GetString("amount")
			dstEid, _ := cmd.Flags().GetUint32("dst-eid")
			recipient, _ := cmd.Flags().GetString("recipient")
			minAmount, _ := cmd.Flags().GetString("min-amount")
			options, _ := cmd.Flags().GetString("extra-options")

			r, client, err := buildRelay(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			result, err := r.Quote(cmd.Context(), relay.QuoteRequest{
				Token:        token,
				Amount:       amount,
				DstEid:       dstEid,
				Recipient:    recipient,
				MinAmount:    minAmount,
				ExtraOptions: options,
			})
			if err != nil {
				return err
			}
			fmt.Printf("native fee: %s wei\n", result.NativeFee.String())
			return nil
		},
	}
	cmd.Flags().String("token", "", "bridge token address")
	cmd.Flags().String("amount", "", "send amount, smallest unit")
	cmd.Flags().Uint32("dst-eid", 0, "destination endpoint id")
	cmd.Flags().String("recipient", "", "destination address (20- or 32-byte hex)")
	cmd.Flags().String("min-amount", "", "slippage floor (defaults to amount)")
	cmd.Flags().String("extra-options", "0x", "execution options hex")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("dst-eid")
	_ = cmd.MarkFlagRequired("recipient")
	return cmd
}

func newBalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Read a native or ERC-20 balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, _ := cmd.Flags().GetString("token")
			address, _ := cmd.Flags().GetString("address")

			_, client, err := buildRelay(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			if address == "" {
				address = client.Address()
			}
			balance, err := client.GetBalance(cmd.Context(), address, token)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", address, balance.String())
			return nil
		},
	}
	cmd.Flags().String("token", "", "token address (empty for native)")
	cmd.Flags().String("address", "", "account to read (defaults to the operator)")
	return cmd
}

func newNonceScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nonce-scan",
		Short: "Find the first unused signature-transfer nonce for an owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetString("owner")
			startWord, _ := cmd.Flags().GetUint64("start-word")
			maxWords, _ := cmd.Flags().GetUint64("max-words")

			_, client, err := buildRelay(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			read := func(ctx context.Context, owner string, wordPos *big.Int) (*big.Int, error) {
				result, err := client.ReadContract(ctx, permit2.ContractAddress,
					permit2.NonceBitmapABI, permit2.FunctionNonceBitmap,
					common.HexToAddress(owner), wordPos)
				if err != nil {
					return nil, err
				}
				bitmap, ok := result.(*big.Int)
				if !ok {
					return nil, fmt.Errorf("unexpected bitmap type: %T", result)
				}
				return bitmap, nil
			}

			nonce, err := permit2.FindUnusedNonce(cmd.Context(), read, owner, startWord, maxWords)
			if err != nil {
				return err
			}
			fmt.Printf("first unused nonce: %s\n", nonce.String())
			return nil
		},
	}
	cmd.Flags().String("owner", "", "token owner address")
	cmd.Flags().Uint64("start-word", 0, "bitmap word position to start from")
	cmd.Flags().Uint64("max-words", 16, "how many words to scan")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
