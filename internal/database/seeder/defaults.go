package seeder

import "strings"

type Options struct {
	AdminEmail    string
	AdminPassword string
	Demo          bool
}

// Defaults returns the seeders to run for opts. The admin seeder is only
// included when both admin credentials are set.
func Defaults(opts Options) []Seeder {
	out := []Seeder{SkillsSeeder{}}
	if strings.TrimSpace(opts.AdminEmail) != "" && opts.AdminPassword != "" {
		out = append(out, AdminSeeder{Email: opts.AdminEmail, Password: opts.AdminPassword})
	}
	if opts.Demo {
		out = append(out, DemoWorkersSeeder{})
	}
	return out
}
