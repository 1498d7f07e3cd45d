package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"firestige.xyz/nxwire/internal/config"
	"firestige.xyz/nxwire/internal/log"
	"firestige.xyz/nxwire/internal/nxm"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Encode or decode NXM flow match records",
}

var matchEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode match profiles from a YAML file to NXM bytes",
	Long: `Encode the rules of a YAML match-profile file to NXM records.

Example profile:
  rules:
    - name: tunneled
      in_port: 3
      tun_id: 0x11223344
      tun_id_mask: 0xffffffff00000000

Example:
  nxwire match encode -f profiles.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		runMatchEncodeCommand()
	},
}

var matchDecodeCmd = &cobra.Command{
	Use:   "decode [hex]",
	Short: "Decode NXM bytes back into rule fields",
	Long: `Decode a hex NXM match region. --match-len gives the significant
length; without it decoding stops at the first all-zero header word, so
trailing pad bytes are skipped.

Examples:
  nxwire match decode 0000000200030000
  nxwire match decode --match-len 18 000000020001000120080000000011223344000000000000`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMatchDecodeCommand(args[0])
	},
}

var (
	matchProfileFile string
	matchLen         int
)

func init() {
	matchEncodeCmd.Flags().StringVarP(&matchProfileFile, "file", "f", "",
		"match profile YAML file (required)")
	matchEncodeCmd.MarkFlagRequired("file")

	matchDecodeCmd.Flags().IntVar(&matchLen, "match-len", 0,
		"significant match length in bytes (default: stop at zero padding)")

	matchCmd.AddCommand(matchEncodeCmd)
	matchCmd.AddCommand(matchDecodeCmd)
}

func runMatchEncodeCommand() {
	doc, err := config.LoadProfiles(matchProfileFile)
	if err != nil {
		exitWithError("failed to load profiles", err)
	}

	for _, profile := range doc.Rules {
		buf, n, err := nxm.MarshalMatch(profile.Rule())
		if err != nil {
			exitWithError(fmt.Sprintf("failed to encode rule %q", profile.Name), err)
		}
		log.GetLogger().WithField("rule", profile.Name).Debugf("encoded %d bytes", len(buf))
		fmt.Printf("%s: match_len=%d bytes=%s\n", profile.Name, n, hex.EncodeToString(buf))
	}
}

func runMatchDecodeCommand(arg string) {
	raw, err := readHexInput([]string{arg}, "")
	if err != nil {
		exitWithError("failed to read match bytes", err)
	}
	n := matchLen
	if n == 0 {
		n = nxm.TrimPadding(raw)
	}

	rule, err := nxm.UnmarshalMatch(raw, n)
	if err != nil {
		exitWithError("failed to decode match", err)
	}

	if rule.Wildcards.Wildcards&nxm.FWW_IN_PORT == 0 {
		fmt.Printf("in_port=%d\n", rule.Flow.InPort)
	}
	if rule.Wildcards.TunIDMask != 0 {
		fmt.Printf("tun_id=%#x mask=%#x\n", rule.Flow.TunID, rule.Wildcards.TunIDMask)
	}
}
