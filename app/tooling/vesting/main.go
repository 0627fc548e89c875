// This program reads a CSV of vesting beneficiaries, writes a per-wallet
// vesting definition file, and can register each wallet as a direct
// allocation target with a running node. The vesting schedule itself is
// enforced off ledger; the node only streams the per-block rate.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/issuance/foundation/allocator/action"
	"github.com/ardanlabs/issuance/foundation/allocator/ledger"
	"github.com/ardanlabs/issuance/foundation/allocator/target"
	"github.com/ethereum/go-ethereum/crypto"
)

var build = "develop"

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, conf.ErrHelpWanted) {
			fmt.Fprintln(os.Stderr, "ERROR:", err)
			os.Exit(1)
		}
	}
}

func run() error {
	cfg := struct {
		conf.Version
		BeneficiariesFile string `conf:"default:zledger/vesting/beneficiaries.csv"`
		OutputFolder      string `conf:"default:zledger/vesting"`
		Register          bool   `conf:"default:false"`
		URL               string `conf:"default:http://localhost:9080"`
		ChainID           uint   `conf:"default:1"`
		PrivateKeyFile    string `conf:"default:zledger/accounts/governor.ecdsa"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "vesting definitions for issuance beneficiaries",
		},
	}

	help, err := conf.Parse("VESTING", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return err
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	definitions, err := loadBeneficiaries(cfg.BeneficiariesFile)
	if err != nil {
		return fmt.Errorf("loading beneficiaries: %w", err)
	}

	if err := writeDefinitions(cfg.OutputFolder, definitions); err != nil {
		return fmt.Errorf("writing definitions: %w", err)
	}

	if !cfg.Register {
		return nil
	}

	return registerTargets(cfg.URL, uint16(cfg.ChainID), cfg.PrivateKeyFile, definitions)
}

// =============================================================================

// definition represents the vesting terms for a single wallet. The per block
// rate is derived from the amount and duration with floor division.
type definition struct {
	Account        ledger.AccountID `json:"account"`
	Name           string           `json:"name"`
	Amount         uint64           `json:"amount"`
	StartBlock     uint64           `json:"start_block"`
	DurationBlocks uint64           `json:"duration_blocks"`
	CliffBlocks    uint64           `json:"cliff_blocks"`
	RatePerBlock   uint64           `json:"rate_per_block"`
}

// loadBeneficiaries parses the CSV file. The expected header is:
// account,name,amount,start_block,duration_blocks,cliff_blocks
func loadBeneficiaries(path string) ([]definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 6

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, errors.New("no beneficiaries found")
	}

	definitions := make([]definition, 0, len(rows)-1)
	for i, row := range rows[1:] {
		def, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		definitions = append(definitions, def)
	}

	return definitions, nil
}

func parseRow(row []string) (definition, error) {
	account, err := ledger.ToAccountID(row[0])
	if err != nil {
		return definition{}, fmt.Errorf("account %q: %w", row[0], err)
	}

	fields := make([]uint64, 4)
	for i, v := range row[2:] {
		fields[i], err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			return definition{}, fmt.Errorf("field %q: %w", v, err)
		}
	}

	def := definition{
		Account:        account,
		Name:           row[1],
		Amount:         fields[0],
		StartBlock:     fields[1],
		DurationBlocks: fields[2],
		CliffBlocks:    fields[3],
	}

	if def.Amount == 0 {
		return definition{}, errors.New("amount must be greater than zero")
	}
	if def.DurationBlocks == 0 {
		return definition{}, errors.New("duration must be greater than zero")
	}
	if def.CliffBlocks > def.DurationBlocks {
		return definition{}, errors.New("cliff exceeds duration")
	}

	def.RatePerBlock = def.Amount / def.DurationBlocks
	if def.RatePerBlock == 0 {
		return definition{}, errors.New("amount too small to stream over the duration")
	}

	return def, nil
}

// writeDefinitions stores one JSON document per wallet in the output folder.
func writeDefinitions(folder string, definitions []definition) error {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return err
	}

	for _, def := range definitions {
		data, err := json.MarshalIndent(def, "", "    ")
		if err != nil {
			return err
		}

		path := filepath.Join(folder, fmt.Sprintf("%s.json", def.Account))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}

		fmt.Printf("wrote %s: amount[%d] rate[%d]\n", path, def.Amount, def.RatePerBlock)
	}

	return nil
}

// =============================================================================

// registerTargets submits a create target action for each wallet so the node
// streams the derived per block rate to the beneficiary.
func registerTargets(url string, chainID uint16, keyFile string, definitions []definition) error {
	privateKey, err := crypto.LoadECDSA(keyFile)
	if err != nil {
		return fmt.Errorf("unable to load private key: %w", err)
	}
	governorID := ledger.PublicKeyToAccountID(privateKey.PublicKey)

	nonce, err := currentNonce(url)
	if err != nil {
		return fmt.Errorf("querying governor nonce: %w", err)
	}

	for _, def := range definitions {
		nonce++

		act := action.Action{
			ChainID:       chainID,
			Nonce:         nonce,
			FromID:        governorID,
			Kind:          action.CreateTarget,
			Beneficiary:   def.Account,
			AllocatorRate: def.RatePerBlock,
		}

		signedAct, err := act.Sign(privateKey)
		if err != nil {
			return fmt.Errorf("signing action: %w", err)
		}

		if err := submit(url, signedAct); err != nil {
			return fmt.Errorf("registering %s: %w", def.Account, err)
		}

		fmt.Printf("registered %s: target[%s] rate[%d]\n", def.Account, target.DeriveAccount(governorID, nonce), def.RatePerBlock)
	}

	return nil
}

func currentNonce(url string) (uint64, error) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/node/status", url))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var status struct {
		LastGovernorNonce uint64 `json:"last_governor_nonce"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return 0, err
	}

	return status.LastGovernorNonce, nil
}

func submit(url string, signedAct action.SignedAction) error {
	data, err := json.Marshal(signedAct)
	if err != nil {
		return err
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/govern/submit", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("status[%d]", resp.StatusCode)
		}
		return fmt.Errorf("status[%d] error[%s]", resp.StatusCode, errResp.Error)
	}

	return nil
}
