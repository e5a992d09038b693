package apu

// lengthTable maps a 5-bit length-counter load value (written to the
// top bits of $4003/$4007/$400B/$400F) to its counter value in APU
// frame-sequencer ticks.
var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// dutyTable gives the four pulse-channel duty-cycle waveforms as an
// 8-step sequence of 0/1 samples.
var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

// noisePeriodTable gives the noise channel's NTSC timer periods indexed
// by the 4-bit period code written to $400E.
var noisePeriodTable = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

// dmcRateTable gives the DMC channel's NTSC timer periods (in CPU
// cycles) indexed by the 4-bit rate code written to $4010.
var dmcRateTable = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54,
}
