package algo

import (
	"github.com/huangsam/pnps/schema"
)

// SynonymousPotential computes the theoretical substitution potential of a
// coding sequence. Each synonymous single nucleotide substitution adds one
// third to the synonymous potential; every unambiguous codon contributes three
// sites in total. Ambiguous codons are skipped and counted.
func SynonymousPotential(seq string) schema.Potential {
	codons := SplitCodons(seq)
	p := schema.Potential{Codons: len(codons)}

	synonymous := 0
	for _, codon := range codons {
		n, ok := SynonymousSites(codon)
		if !ok {
			p.Ambiguous++
			continue
		}
		synonymous += n
	}

	p.Synonymous = float64(synonymous) / 3
	p.NonSynonymous = float64(3*(p.Codons-p.Ambiguous)) - p.Synonymous
	return p
}

// PotentialTable computes the potential of every gene sequence and the total
// number of ambiguous codons skipped across all of them.
func PotentialTable(sequences map[schema.GeneID]string) (map[schema.GeneID]schema.Potential, int) {
	out := make(map[schema.GeneID]schema.Potential, len(sequences))
	ambiguous := 0
	for gene, seq := range sequences {
		p := SynonymousPotential(seq)
		ambiguous += p.Ambiguous
		out[gene] = p
	}
	return out, ambiguous
}
