// Package host identifies the application hosting a plugin instance.
package host

import (
	"fmt"
	"strings"
)

// Host is a known plugin host.
type Host int

const (
	Unknown Host = iota
	Reaper
	ProTools
	Cubase
	Nuendo
	Sonar
	Vegas
	FL
	Samplitude
	AbletonLive
	Tracktion
	NTracks
	Melodyne
	VSTScanner
	AULab
	Forte
	Chainer
	Audition
	Orion
	SAWStudio
	Logic
	GarageBand
	DigitalPerformer
	AudioMulch
	StudioOne
	VST3TestHost
	Ardour
	Renoise
	OpenMPT
	WavelabElements
	Wavelab
	TwistedWave
	Bitwig
	Reason
	Standalone
)

// matchers is ordered: the first substring found in the lower-cased host
// name wins, so more specific names precede the names they contain.
var matchers = []struct {
	substr string
	host   Host
}{
	{"reaper", Reaper},
	{"protools", ProTools},
	{"pro tools", ProTools},
	{"cubase", Cubase},
	{"nuendo", Nuendo},
	{"cakewalk", Sonar},
	{"sonar", Sonar},
	{"vegas", Vegas},
	{"fruity", FL},
	{"fl studio", FL},
	{"samplitude", Samplitude},
	{"tracktion", Tracktion},
	{"ntracks", NTracks},
	{"melodyne", Melodyne},
	{"vstmanlib", VSTScanner},
	{"aulab", AULab},
	{"forte", Forte},
	{"chainer", Chainer},
	{"audition", Audition},
	{"orion", Orion},
	{"sawstudio", SAWStudio},
	{"logic", Logic},
	{"garageband", GarageBand},
	{"digital", DigitalPerformer},
	{"audiomulch", AudioMulch},
	{"presonus", StudioOne},
	{"studio one", StudioOne},
	{"vst3plugintesthost", VST3TestHost},
	{"ardour", Ardour},
	{"renoise", Renoise},
	{"openmpt", OpenMPT},
	{"wavelab elements", WavelabElements},
	{"wavelab", Wavelab},
	{"twistedwave", TwistedWave},
	{"bitwig studio", Bitwig},
	{"reason", Reason},
	{"standalone", Standalone},
	{"live", AbletonLive},
}

var names = map[Host]string{
	Unknown:          "Unknown",
	Reaper:           "Reaper",
	ProTools:         "Pro Tools",
	Cubase:           "Cubase",
	Nuendo:           "Nuendo",
	Sonar:            "Sonar",
	Vegas:            "Vegas",
	FL:               "FL Studio",
	Samplitude:       "Samplitude",
	AbletonLive:      "Ableton Live",
	Tracktion:        "Tracktion",
	NTracks:          "n-Track",
	Melodyne:         "Melodyne",
	VSTScanner:       "VST Scanner",
	AULab:            "AU Lab",
	Forte:            "Forte",
	Chainer:          "Chainer",
	Audition:         "Audition",
	Orion:            "Orion",
	SAWStudio:        "SAWStudio",
	Logic:            "Logic",
	GarageBand:       "GarageBand",
	DigitalPerformer: "Digital Performer",
	AudioMulch:       "AudioMulch",
	StudioOne:        "Studio One",
	VST3TestHost:     "VST3 Test Host",
	Ardour:           "Ardour",
	Renoise:          "Renoise",
	OpenMPT:          "OpenMPT",
	WavelabElements:  "WaveLab Elements",
	Wavelab:          "WaveLab",
	TwistedWave:      "TwistedWave",
	Bitwig:           "Bitwig Studio",
	Reason:           "Reason",
	Standalone:       "Standalone",
}

func (h Host) String() string {
	if n, ok := names[h]; ok {
		return n
	}
	return fmt.Sprintf("Host(%d)", int(h))
}

// Lookup resolves a host product string, case-insensitively.
func Lookup(name string) Host {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return Unknown
	}
	for _, m := range matchers {
		if strings.Contains(lower, m.substr) {
			return m.host
		}
	}
	return Unknown
}

// VersionParts splits a packed 0xVVVVRRMM version integer.
func VersionParts(version int) (major, minor, patch int) {
	major = (version >> 16) & 0xFFFF
	minor = (version >> 8) & 0xFF
	patch = version & 0xFF
	return major, minor, patch
}

// VersionString formats a packed version as "major.minor.patch".
func VersionString(version int) string {
	major, minor, patch := VersionParts(version)
	return fmt.Sprintf("%d.%d.%d", major, minor, patch)
}

// PackVersion builds a 0xVVVVRRMM version integer.
func PackVersion(major, minor, patch int) int {
	return (major&0xFFFF)<<16 | (minor&0xFF)<<8 | patch&0xFF
}
