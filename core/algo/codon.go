// Package algo has the sequence level algorithms behind pN/pS: the genetic
// code, gene sequence extraction and substitution potential.
package algo

import "strings"

// Standard genetic code: DNA codon to amino acid (single letter, '*' for stop).
var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// nucleotides are the unambiguous bases.
const nucleotides = "ACGT"

// synonymousSites maps every codon to the number of its single nucleotide
// substitutions that keep the encoded amino acid, out of nine.
var synonymousSites = buildSynonymousSites()

func buildSynonymousSites() map[string]int {
	sites := make(map[string]int, len(codonTable))
	for codon, aa := range codonTable {
		n := 0
		for i := range 3 {
			for _, nt := range []byte(nucleotides) {
				if nt == codon[i] {
					continue
				}
				mutated := []byte(codon)
				mutated[i] = nt
				if codonTable[string(mutated)] == aa {
					n++
				}
			}
		}
		sites[codon] = n
	}
	return sites
}

// TranslateCodon translates a DNA codon to its amino acid.
// The second value is false for codons outside the standard table.
func TranslateCodon(codon string) (byte, bool) {
	aa, ok := codonTable[strings.ToUpper(codon)]
	return aa, ok
}

// SynonymousSites returns how many of the nine single nucleotide substitutions
// of codon are synonymous. The second value is false for ambiguous codons.
func SynonymousSites(codon string) (int, bool) {
	n, ok := synonymousSites[strings.ToUpper(codon)]
	return n, ok
}

// SplitCodons splits seq into consecutive length three chunks. A trailing
// incomplete chunk is kept so callers can count it as ambiguous.
func SplitCodons(seq string) []string {
	codons := make([]string, 0, (len(seq)+2)/3)
	for i := 0; i < len(seq); i += 3 {
		codons = append(codons, seq[i:min(i+3, len(seq))])
	}
	return codons
}
