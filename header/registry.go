// SPDX-License-Identifier: EPL-2.0

package header

// registry is the dispatch table. Order matters: more specific signatures
// sharing a prefix with broader ones come first (BICSF before NeXT, the
// FORM and RIFF families are split on their second word), loose structural
// checks come last.
var registry = []Reader{
	bicsfReader,
	nextReader,
	aiffReader,
	svxReader,
	maudReader,
	cslReader,
	riffReader,
	soundFontReader,
	aviReader,
	wave64Reader,
	caffReader,
	ircamReader,
	nistReader,
	vocReader,
	espsReader,
	comdiscoReader,
	soxReader,
	fileSampReader,
	pvfReader,
	smpReader,
	avrReader,
	sndtReader,
	psionReader,
	goldwaveReader,
	srfsReader,
	gravisReader,
	diamondWareReader,
	impulseReader,
	digiPlayerReader,
	pafReader,
	farandoleReader,
	tx16wReader,
	sy85Reader,
	kurzweilReader,
	korgReader,
	mauiReader,
	nvfReader,
	midiReader,
	oggReader,
	flacReader,
	shortenReader,
	ttaReader,
	wavPackReader,
	sdifReader,
	twinVQReader,
	matlabReader,
	ieeeReader,
	asfReader,
	hcomReader,
	sampleDumpReader,
	adcReader,
	sppackReader,
	inrsReader,
	omfReader,
	quicktimeReader,
	mpegReader,
}

// rawReader interprets a headerless file with the process-wide defaults.
var rawReader = readerFunc{
	typ:    Raw,
	detect: func([]byte, int64) bool { return true },
	parse: func(in *Input) (*Descriptor, PendingWriteOffsets, error) {
		rd := RawDefaultsValue()
		d := in.descriptor(Raw)
		d.SampleRate = rd.SampleRate
		d.Chans = rd.Chans
		d.SampleType = rd.SampleType
		d.Samples = BytesToSamples(rd.SampleType, in.Size())
		return d, PendingWriteOffsets{}, nil
	},
}
