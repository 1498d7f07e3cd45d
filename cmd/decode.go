package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/spf13/cobra"
	"golang.org/x/net/icmp"

	"firestige.xyz/nxwire/internal/core"
	"firestige.xyz/nxwire/internal/ipv6"
	"firestige.xyz/nxwire/internal/log"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [hex]",
	Short: "Decode a hex-encoded IPv6 packet",
	Long: `Decode a hex-encoded IPv6 packet: fixed header, extension header
chain and, when a handler is registered for the terminal protocol, the
upper layer (TCP, ICMPv6).

Examples:
  nxwire decode 6000000000280640...
  nxwire decode -f packet.hex`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runDecodeCommand(args)
	},
}

var decodeFile string

func init() {
	decodeCmd.Flags().StringVarP(&decodeFile, "file", "f", "",
		"file holding the hex dump (alternative to the argument)")
}

func runDecodeCommand(args []string) {
	raw, err := readHexInput(args, decodeFile)
	if err != nil {
		exitWithError("failed to read packet", err)
	}

	hdr, proto, payload, err := ipv6.Parse(raw)
	if err != nil {
		exitWithError("failed to parse packet", err)
	}

	log.GetLogger().WithFields(map[string]interface{}{
		"proto":   proto,
		"payload": len(payload),
		"exthdrs": len(hdr.ExtHdrs),
	}).Debug("packet parsed")

	fmt.Printf("version=%d traffic_class=%d flow_label=%#x\n",
		hdr.Version, hdr.TrafficClass, hdr.FlowLabel)
	fmt.Printf("payload_length=%d hop_limit=%d\n", hdr.PayloadLength, hdr.HopLimit)
	fmt.Printf("src=%s dst=%s\n", hdr.Src, hdr.Dst)
	for i, eh := range hdr.ExtHdrs {
		fmt.Printf("ext[%d]: type=%d nxt=%d len=%d\n", i, eh.TypeCode(), eh.Nxt(), eh.Len())
	}

	handled, err := upperLayers().Dispatch(proto, payload)
	if err != nil {
		exitWithError("failed to decode upper layer", err)
	}
	if !handled {
		fmt.Printf("upper layer: protocol %d (%d bytes, no handler)\n", proto, len(payload))
	}
}

// upperLayers builds the dispatch table for the protocols the tool can
// take apart itself.
func upperLayers() *core.Dispatcher {
	d := core.NewDispatcher()
	mustRegister := func(proto uint8, h core.ProtoHandler) {
		if err := d.Register(proto, h); err != nil {
			panic(err)
		}
	}
	mustRegister(ipv6.ProtoTCP, decodeTCP)
	mustRegister(ipv6.ProtoICMPv6, decodeICMPv6)
	return d
}

func decodeTCP(payload []byte) error {
	var tcp layers.TCP
	if err := tcp.DecodeFromBytes(payload, gopacket.NilDecodeFeedback); err != nil {
		return fmt.Errorf("tcp decode: %w", err)
	}
	fmt.Printf("tcp: src_port=%d dst_port=%d seq=%d\n", tcp.SrcPort, tcp.DstPort, tcp.Seq)
	return nil
}

func decodeICMPv6(payload []byte) error {
	msg, err := icmp.ParseMessage(ipv6.ProtoICMPv6, payload)
	if err != nil {
		return fmt.Errorf("icmpv6 decode: %w", err)
	}
	fmt.Printf("icmpv6: type=%v code=%d\n", msg.Type, msg.Code)
	return nil
}

func readHexInput(args []string, file string) ([]byte, error) {
	var text string
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		text = string(data)
	case len(args) == 1:
		text = args[0]
	default:
		return nil, fmt.Errorf("need a hex argument or --file")
	}
	text = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, text)
	return hex.DecodeString(text)
}
