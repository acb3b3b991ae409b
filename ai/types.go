package ai

// ChunkTypes lists the phrase chunk labels a Chunker may assign.
var ChunkTypes = []string{
	"ADJP",
	"ADVP",
	"CONJP",
	"INTJ",
	"LST",
	"NP",
	"PP",
	"PRT",
	"SBAR",
	"UCP",
	"VP",
}
