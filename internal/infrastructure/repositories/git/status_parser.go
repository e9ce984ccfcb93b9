package git

import (
	"strings"

	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// conflictCodes are the unmerged XY pairs of `git status --porcelain`.
var conflictCodes = map[string]bool{
	"DD": true, "AU": true, "UD": true, "UA": true,
	"DU": true, "AA": true, "UU": true,
}

// ParsePorcelainStatus parses NUL-separated `git status --porcelain=v1 -z` output.
func ParsePorcelainStatus(output string) entities.RepoStatus {
	var status entities.RepoStatus
	entries := strings.Split(output, "\x00")

	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		if len(entry) < 4 { //nolint:mnd // "XY " plus at least one path byte
			continue
		}
		code, path := entry[:2], entry[3:]
		index, worktree := code[0], code[1]

		// renames and copies carry the original path as the next entry
		if index == 'R' || index == 'C' {
			i++
		}

		switch {
		case conflictCodes[code]:
			status.Conflicted = append(status.Conflicted, path)
		case code == "??":
			status.NotAdded = append(status.NotAdded, path)
		default:
			if index == 'A' {
				status.Created = append(status.Created, path)
			}
			if index == 'D' || worktree == 'D' {
				status.Deleted = append(status.Deleted, path)
			}
			if index == 'M' || worktree == 'M' {
				status.Modified = append(status.Modified, path)
			}
			if index == 'R' {
				status.Renamed = append(status.Renamed, path)
			}
		}
	}
	return status
}
