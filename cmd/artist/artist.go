package artist

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/guesstune/cmd/common"
	"github.com/gigurra/guesstune/cmd/common/config"
	"github.com/gigurra/guesstune/cmd/common/kvstore"
	"github.com/spf13/cobra"
)

// StoreKey is the key the selected artist is persisted under.
const StoreKey = "gts:selectedArtist"

// Store is the subset of the key-value store used here.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Selected returns the persisted artist, or fallback when none is stored.
func Selected(store Store, fallback string) string {
	if store == nil {
		return fallback
	}
	name, err := store.Get(StoreKey)
	if err != nil || strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}

// Select persists name as the selected artist.
func Select(store Store, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("artist name must not be empty")
	}
	return store.Set(StoreKey, name)
}

type Params struct {
	Name  string `pos:"true" optional:"true" help:"Artist to select. Prints the current selection when omitted."`
	Clear bool   `long:"clear" optional:"true" help:"Forget the selection and fall back to the configured default."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "artist",
		Short:       "Show or change the selected artist",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			common.ExitOnError("artist", run(params, os.Stdout))
		},
	}.ToCobra()
}

func run(params *Params, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := kvstore.Open(kvstore.DefaultPath())
	if err != nil {
		return err
	}

	switch {
	case params.Clear:
		if err := store.Set(StoreKey, ""); err != nil {
			return err
		}
		fmt.Fprintln(stdout, cfg.DefaultArtist)
	case params.Name != "":
		if err := Select(store, params.Name); err != nil {
			return err
		}
		fmt.Fprintln(stdout, strings.TrimSpace(params.Name))
	default:
		fmt.Fprintln(stdout, Selected(store, cfg.DefaultArtist))
	}
	return nil
}
