// Command mine builds a small chain in memory and prints it after each block.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/thanhnp/pow-ledger/internal/chain"
	"github.com/thanhnp/pow-ledger/internal/config"
	"github.com/thanhnp/pow-ledger/internal/logging"
)

var messages = []string{
	"This is the first real block",
	"And this is the next one",
}

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Mining operations are now open for business!")

	if err := run(cfg.Miner(), log); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(miner chain.Miner, log logrus.FieldLogger) error {
	c, err := chain.New(chain.SystemClock{}, chain.WithMiner(miner))
	if err != nil {
		return err
	}
	fmt.Println(c)

	for _, msg := range messages {
		b, err := c.Append([]byte(msg))
		if err != nil {
			return err
		}
		log.WithField("nonce", b.Nonce()).Debug("Block mined")
		fmt.Println(c)
	}

	if err := c.Verify(); err != nil {
		return err
	}
	return nil
}
