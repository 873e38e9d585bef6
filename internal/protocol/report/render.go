package report

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleSection = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	stylePass    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleFail    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleDim     = lipgloss.NewStyle().Faint(true)
)

// Render formats a decoded report for a terminal, joining each record
// against the expected-value table.
func Render(r Report, vec Vectors) string {
	var b strings.Builder

	if r.Unknown {
		fmt.Fprintf(&b, "%s\n", styleFail.Render(fmt.Sprintf("unknown report kind 0x%02x", r.Kind)))
		renderUnparsed(&b, r.Unparsed)
		return b.String()
	}

	b.WriteString(styleTitle.Render("device self-test report"))
	b.WriteString("\n")

	renderDerivation(&b, r.Derivation)
	renderKeyMatrix(&b, r.KeyMatrix, vec)
	renderAddresses(&b, r.Addresses, vec)
	renderUnparsed(&b, r.Unparsed)

	return b.String()
}

func renderDerivation(b *strings.Builder, d *DerivationDebug) {
	if d == nil {
		return
	}
	b.WriteString(styleSection.Render("bip32 derivation"))
	b.WriteString("\n")
	if !d.Derived {
		fmt.Fprintf(b, "  %s\n", styleFail.Render("derivation failed"))
		return
	}
	fmt.Fprintf(b, "  %s\n", stylePass.Render("derivation ok"))
	if d.RawKey != nil {
		fmt.Fprintf(b, "  raw key   %s\n", styleDim.Render(hex.EncodeToString(d.RawKey)))
	}
	if d.Clamped != nil {
		fmt.Fprintf(b, "  clamped   %s\n", styleDim.Render(hex.EncodeToString(d.Clamped)))
	}
	if d.PublicOK {
		fmt.Fprintf(b, "  %s", stylePass.Render("public key ok"))
		if d.Public != nil {
			fmt.Fprintf(b, " %s", styleDim.Render(hex.EncodeToString(d.Public)))
		}
		b.WriteString("\n")
	} else {
		fmt.Fprintf(b, "  %s\n", styleFail.Render("public key derivation failed"))
	}
}

func renderKeyMatrix(b *strings.Builder, m *KeyMatrix, vec Vectors) {
	if m == nil {
		return
	}
	b.WriteString(styleSection.Render("key derivation matrix"))
	b.WriteString("\n")
	for _, res := range m.Results {
		name := fmt.Sprintf("record 0x%02x", res.Marker)
		expected := ""
		if v, ok := vec.Key(res.Marker); ok {
			name = v.Name
			expected = v.Public
		}
		switch {
		case !res.Derived:
			fmt.Fprintf(b, "  %-26s %s\n", name, styleFail.Render("derivation failed"))
		case res.Match:
			fmt.Fprintf(b, "  %-26s %s\n", name, stylePass.Render("pass"))
		default:
			fmt.Fprintf(b, "  %-26s %s\n", name, styleFail.Render("public key mismatch"))
			if expected != "" {
				fmt.Fprintf(b, "    expected %s\n", styleDim.Render(expected))
			}
		}
	}
	if !m.Terminated {
		fmt.Fprintf(b, "  %s\n", styleWarn.Render("section terminator missing"))
	}
	if m.AllPassed() {
		fmt.Fprintf(b, "  %s\n", stylePass.Render("all key derivation tests passed"))
	}
}

func renderAddresses(b *strings.Builder, m *AddressMatrix, vec Vectors) {
	if m == nil {
		return
	}
	b.WriteString(styleSection.Render("address generation matrix"))
	b.WriteString("\n")
	for _, res := range m.Results {
		name := fmt.Sprintf("record 0x%02x", res.Marker)
		var v AddressVector
		if found, ok := vec.Address(res.Marker); ok {
			v = found
			name = v.Name
		}
		fmt.Fprintf(b, "  %s\n", name)
		renderNet(b, "mainnet", res.Mainnet, v.Mainnet)
		if res.Testnet != nil {
			renderNet(b, "testnet", *res.Testnet, v.Testnet)
		}
	}
	if !m.Terminated {
		fmt.Fprintf(b, "  %s\n", styleWarn.Render("section terminator missing"))
	}
}

func renderNet(b *strings.Builder, net string, res NetResult, expected string) {
	switch res.Outcome {
	case OutcomePass:
		fmt.Fprintf(b, "    %-8s %s\n", net, stylePass.Render("pass"))
	case OutcomeFail:
		fmt.Fprintf(b, "    %-8s %s\n", net, styleFail.Render("fail"))
	default:
		fmt.Fprintf(b, "    %-8s %s\n", net, styleWarn.Render("mismatch"))
		if res.ActualLen != 0 || res.ExpectedLen != 0 {
			fmt.Fprintf(b, "      actual %d bytes, expected %d bytes\n", res.ActualLen, res.ExpectedLen)
		}
		if res.Excerpt != nil {
			fmt.Fprintf(b, "      excerpt %s\n", styleDim.Render(hex.EncodeToString(res.Excerpt)))
		}
		if expected != "" {
			fmt.Fprintf(b, "      expected %s\n", styleDim.Render(expected))
		}
	}
}

func renderUnparsed(b *strings.Builder, spans [][]byte) {
	for _, span := range spans {
		fmt.Fprintf(b, "%s %s\n", styleWarn.Render("unparsed"), styleDim.Render(hex.EncodeToString(span)))
	}
}
