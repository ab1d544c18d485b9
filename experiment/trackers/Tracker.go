// Package trackers implements Trackers, which track and save data of
// the episodes of an experiment
package trackers

import (
	"encoding/gob"
	"fmt"
	"os"
)

// save gob-encodes data to filename
func save(filename string, data interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not open save file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err = en.Encode(data); err != nil {
		return fmt.Errorf("could not encode data: %v", err)
	}
	return nil
}

// load gob-decodes the data in filename into data
func load(filename string, data interface{}) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("could not open data file: %v", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	if err = dec.Decode(data); err != nil {
		return fmt.Errorf("could not decode data: %v", err)
	}
	return nil
}

// LoadData loads and returns the data saved by a Return or Epsilon
// Tracker
func LoadData(filename string) ([]float64, error) {
	var data []float64
	if err := load(filename, &data); err != nil {
		return nil, fmt.Errorf("loadData: %v", err)
	}
	return data, nil
}

// LoadLengths loads and returns the episode lengths saved by an
// EpisodeLength Tracker
func LoadLengths(filename string) ([]int, error) {
	var data []int
	if err := load(filename, &data); err != nil {
		return nil, fmt.Errorf("loadLengths: %v", err)
	}
	return data, nil
}
