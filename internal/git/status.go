package git

import (
	"strconv"
	"strings"

	"github.com/chmouel/lazygitpanel/internal/models"
)

// parseStatusV2 parses `git status --porcelain=v2 --branch -z` output.
//
// Entry layouts (fields are space separated, records NUL terminated):
//
//	1 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <path>
//	2 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <X><score> <path>NUL<origPath>
//	u <XY> <sub> <m1> <m2> <m3> <mW> <h1> <h2> <h3> <path>
//	? <path>
//
// X is the index side and Y the working-tree side; each non-'.' side
// yields one FileEntry, so a path changed in both shows up twice.
func parseStatusV2(raw string) *models.RepoStatus {
	status := &models.RepoStatus{}
	records := strings.Split(raw, "\x00")

	for i := 0; i < len(records); i++ {
		rec := records[i]
		if rec == "" {
			continue
		}

		switch rec[0] {
		case '#':
			parseBranchHeader(status, rec)
		case '1':
			parts := strings.SplitN(rec, " ", 9)
			if len(parts) < 9 {
				continue
			}
			status.Files = appendXY(status.Files, parts[1], parts[8])
		case '2':
			parts := strings.SplitN(rec, " ", 10)
			// the original path is the following record
			i++
			if len(parts) < 10 {
				continue
			}
			status.Files = appendXY(status.Files, parts[1], parts[9])
		case 'u':
			parts := strings.SplitN(rec, " ", 11)
			if len(parts) < 11 {
				continue
			}
			status.Files = append(status.Files, models.FileEntry{
				Path:   parts[10],
				Status: models.StatusUnmerged,
			})
		case '?':
			if len(rec) < 3 {
				continue
			}
			status.Files = append(status.Files, models.FileEntry{
				Path:   rec[2:],
				Status: models.StatusUntracked,
			})
		}
	}

	status.IsClean = len(status.Files) == 0
	return status
}

func parseBranchHeader(status *models.RepoStatus, rec string) {
	switch {
	case strings.HasPrefix(rec, "# branch.head "):
		head := strings.TrimPrefix(rec, "# branch.head ")
		if head != "(detached)" {
			status.Branch = head
		}
	case strings.HasPrefix(rec, "# branch.ab "):
		// only present when an upstream is configured
		fields := strings.Fields(rec)
		if len(fields) >= 4 {
			status.Ahead, _ = strconv.Atoi(strings.TrimPrefix(fields[2], "+"))
			status.Behind, _ = strconv.Atoi(strings.TrimPrefix(fields[3], "-"))
		}
	}
}

func appendXY(files []models.FileEntry, xy, path string) []models.FileEntry {
	if len(xy) < 2 {
		return files
	}
	if st, ok := models.ParseStatusCode(xy[0]); ok {
		files = append(files, models.FileEntry{Path: path, Status: st, Staged: true})
	}
	if st, ok := models.ParseStatusCode(xy[1]); ok {
		files = append(files, models.FileEntry{Path: path, Status: st})
	}
	return files
}
