package domain

import "time"

type Document struct {
	Filename string    `json:"filename"`
	Filepath string    `json:"filepath"`
	Size     int64     `json:"size"`
	Type     string    `json:"type"`
	Modified time.Time `json:"modified"`
}
