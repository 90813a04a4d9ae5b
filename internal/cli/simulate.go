package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Ananth-NQI/kilimo-smart/internal/config"
	"github.com/Ananth-NQI/kilimo-smart/internal/logx"
	"github.com/Ananth-NQI/kilimo-smart/internal/services"
)

var (
	simPhone       string
	simServiceCode string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Walk through the USSD menu from the terminal",
	Long: `Simulate drives one menu session locally. Each line read from stdin is
one menu selection; input is accumulated the way a USSD gateway does.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simPhone, "phone", "+255700000000", "Phone number reported to the menu")
	simulateCmd.Flags().StringVar(&simServiceCode, "service-code", "*384*1#", "USSD service code")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Read(envFile)
	if err != nil {
		return err
	}
	logx.Init(logx.Config{Debug: cfg.Log.Debug, Pretty: true, Output: os.Stderr})

	ctx := cmd.Context()
	comps, err := newComponents(ctx, cfg, config.JournalMemory)
	if err != nil {
		return err
	}
	defer comps.Close()

	return simulate(cmd, comps.menu, term.IsTerminal(int(os.Stdin.Fd())))
}

func simulate(cmd *cobra.Command, menu *services.MenuService, interactive bool) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	sessionID := uuid.NewString()

	var inputs []string
	for {
		reply := menu.Handle(cmd.Context(), services.MenuRequest{
			SessionID:   sessionID,
			ServiceCode: simServiceCode,
			PhoneNumber: simPhone,
			Text:        strings.Join(inputs, "*"),
		})
		fmt.Fprintln(out, reply.String())
		if reply.Terminal {
			return nil
		}

		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !in.Scan() {
			return in.Err()
		}
		inputs = append(inputs, strings.TrimSpace(in.Text()))
	}
}
