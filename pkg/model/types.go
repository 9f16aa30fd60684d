package model

import "fmt"

// Genome identifier, usually a short taxonomy code such as "HUMAN".
type Species string

func (s Species) String() string {
	return string(s)
}

// One annotated occurrence of a domain within a protein.
type Domain struct {
	ID     string  `json:"domain_id"`
	From   int     `json:"from"`
	To     int     `json:"to"`
	Evalue float64 `json:"evalue"`
}

func (d Domain) String() string {
	return fmt.Sprintf("%s[%d-%d]", d.ID, d.From, d.To)
}

// Protein with its domain occurrences in sequence order.
type Protein struct {
	ID      string   `json:"protein_id"`
	Species Species  `json:"species"`
	Domains []Domain `json:"domains"`
}

func NewProtein(id string, species Species, domains ...Domain) *Protein {
	return &Protein{
		ID:      id,
		Species: species,
		Domains: domains,
	}
}

func (p *Protein) AddDomain(d Domain) {
	p.Domains = append(p.Domains, d)
}

func (p *Protein) NumberOfDomains() int {
	return len(p.Domains)
}
