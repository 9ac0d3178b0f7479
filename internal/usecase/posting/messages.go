package posting

import "fmt"

func adminTitle(skill string) string {
	return fmt.Sprintf("New Job Posted: %s", skill)
}

func adminMessage(businessName string, n int, skill string) string {
	return fmt.Sprintf("%s has posted a job for %d %s(s)", businessName, n, skill)
}

func workerTitle(skill string) string {
	return fmt.Sprintf("New %s job available", skill)
}

func workerMessage(businessName string, n int, skill string) string {
	return fmt.Sprintf("%s is looking for %d %s(s)", businessName, n, skill)
}
