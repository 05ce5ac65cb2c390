package algo

import (
	"fmt"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"github.com/huangsam/pnps/schema"
)

// Reverse marks a gene call on the reverse strand.
const Reverse = "r"

// GeneSequence extracts the coding sequence of call from its contig.
// Reverse strand calls are reverse complemented. The result is upper case.
func GeneSequence(contig string, call schema.GeneCall) (string, error) {
	if call.Start < 0 || call.Stop > len(contig) || call.Start >= call.Stop {
		return "", fmt.Errorf("gene %s spans [%d, %d) outside contig %s of length %d",
			call.ID, call.Start, call.Stop, call.Contig, len(contig))
	}

	seq := strings.ToUpper(contig[call.Start:call.Stop])
	if strings.EqualFold(call.Direction, Reverse) {
		seq = ReverseComplement(seq)
	}
	return seq, nil
}

// ReverseComplement returns the reverse complement of a DNA sequence.
// Bases outside the IUPAC alphabet become N.
func ReverseComplement(seq string) string {
	s := linear.NewSeq("", alphabet.BytesToLetters([]byte(seq)), alphabet.DNAredundant)
	s.RevComp()

	out := alphabet.LettersToBytes(s.Seq)
	for i, b := range out {
		if !alphabet.DNAredundant.IsValid(alphabet.Letter(b)) {
			out[i] = 'N'
		}
	}
	return strings.ToUpper(string(out))
}

// GeneSequences extracts the sequence of every call from contigs.
// A call whose contig is missing or whose span is invalid is an error.
func GeneSequences(calls map[schema.GeneID]schema.GeneCall, contigs map[string]string) (map[schema.GeneID]string, error) {
	out := make(map[schema.GeneID]string, len(calls))
	for _, id := range schema.SortedGenes(calls) {
		call := calls[id]
		contig, ok := contigs[call.Contig]
		if !ok {
			return nil, fmt.Errorf("contig %q of gene %s is not in the gene store", call.Contig, id)
		}
		seq, err := GeneSequence(contig, call)
		if err != nil {
			return nil, err
		}
		out[id] = seq
	}
	return out, nil
}
