package main

import (
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldesk/core/person"
)

// personFlags are shared by add and edit.
type personFlags struct {
	first, last, class, section, role, contact, contact2 *string
	age                                                  *int
	custom                                               fieldFlags
}

func newPersonFlags(fs *flag.FlagSet) *personFlags {
	pf := &personFlags{
		first:    fs.String("first", "", "first name"),
		last:     fs.String("last", "", "last name"),
		age:      fs.Int("age", 0, "age (students)"),
		class:    fs.String("class", "", "class (students)"),
		section:  fs.String("section", "", "section (students)"),
		role:     fs.String("role", "", "role (teachers)"),
		contact:  fs.String("contact", "", "primary contact"),
		contact2: fs.String("contact2", "", "secondary contact"),
		custom:   fieldFlags{},
	}
	fs.Var(pf.custom, "field", "custom field as key=value (repeatable)")
	return pf
}

func (cli *commandLine) listCmd(args []string) error {
	fs := cli.newFlagSet("list")
	kindStr := kindFlag(fs)
	var filter person.Filter
	fs.StringVar(&filter.Query, "q", "", "search the ID, name, class, section, role and contacts")
	fs.StringVar(&filter.Class, "class", "", "only this class (students)")
	fs.StringVar(&filter.Section, "section", "", "only this section (students)")
	classes := fs.Bool("classes", false, "count students per class instead")
	if err := parse(fs, args); err != nil {
		return err
	}
	kind, err := parseKind(fs, *kindStr)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	if *classes {
		counts, err := cli.app.People.ClassCounts()
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "CLASS\tSTUDENTS")
		for _, c := range counts {
			class := c.Class
			if class == "" {
				class = "-"
			}
			fmt.Fprintf(tw, "%s\t%d\n", class, c.Students)
		}
		return tw.Flush()
	}

	switch kind {
	case person.KindStudent:
		students, err := cli.app.People.SearchStudents(filter)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ID\tNAME\tAGE\tCLASS\tSECTION\tCONTACT")
		for _, s := range students {
			age := ""
			if s.Age != nil {
				age = fmt.Sprint(*s.Age)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.FullName(), age, s.Class, s.Section, s.PrimaryContact)
		}
	case person.KindTeacher:
		teachers, err := cli.app.People.SearchTeachers(filter)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ID\tNAME\tROLE\tCONTACT")
		for _, t := range teachers {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.FullName(), t.Role, t.PrimaryContact)
		}
	}
	return tw.Flush()
}

func (cli *commandLine) addCmd(args []string) error {
	fs := cli.newFlagSet("add")
	kindStr := kindFlag(fs)
	id := fs.String("id", "", "ID (generated when empty)")
	pf := newPersonFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	kind, err := parseKind(fs, *kindStr)
	if err != nil {
		return err
	}
	set := visited(fs)

	var created person.Person
	switch kind {
	case person.KindStudent:
		ns := person.NewStudent{
			ID:               *id,
			FirstName:        *pf.first,
			LastName:         *pf.last,
			Class:            *pf.class,
			Section:          *pf.section,
			PrimaryContact:   *pf.contact,
			SecondaryContact: *pf.contact2,
			CustomFields:     pf.custom,
		}
		if set["age"] {
			ns.Age = pf.age
		}
		s, err := cli.app.People.CreateStudent(ns)
		if err != nil {
			return err
		}
		created = s.Person
	case person.KindTeacher:
		t, err := cli.app.People.CreateTeacher(person.NewTeacher{
			ID:               *id,
			FirstName:        *pf.first,
			LastName:         *pf.last,
			Role:             *pf.role,
			PrimaryContact:   *pf.contact,
			SecondaryContact: *pf.contact2,
			CustomFields:     pf.custom,
		})
		if err != nil {
			return err
		}
		created = t.Person
	}
	cli.printf("added %s %s (%s)\n", kind, created.ID, created.FullName())
	return nil
}

func (cli *commandLine) editCmd(args []string) error {
	fs := cli.newFlagSet("edit")
	kindStr := kindFlag(fs)
	id := fs.String("id", "", "ID of the person to change")
	pf := newPersonFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	kind, err := parseKind(fs, *kindStr)
	if err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}
	set := visited(fs)
	given := func(name string, val *string) *string {
		if set[name] {
			return val
		}
		return nil
	}

	switch kind {
	case person.KindStudent:
		us := person.UpdateStudent{
			FirstName:        given("first", pf.first),
			LastName:         given("last", pf.last),
			Class:            given("class", pf.class),
			Section:          given("section", pf.section),
			PrimaryContact:   given("contact", pf.contact),
			SecondaryContact: given("contact2", pf.contact2),
			CustomFields:     pf.custom,
		}
		if set["age"] {
			us.Age = pf.age
		}
		_, err = cli.app.People.UpdateStudent(*id, us)
	case person.KindTeacher:
		_, err = cli.app.People.UpdateTeacher(*id, person.UpdateTeacher{
			FirstName:        given("first", pf.first),
			LastName:         given("last", pf.last),
			Role:             given("role", pf.role),
			PrimaryContact:   given("contact", pf.contact),
			SecondaryContact: given("contact2", pf.contact2),
			CustomFields:     pf.custom,
		})
	}
	if err != nil {
		return err
	}
	cli.printf("updated %s %s\n", kind, *id)
	return nil
}

func (cli *commandLine) deleteCmd(args []string) error {
	fs := cli.newFlagSet("delete")
	kindStr := kindFlag(fs)
	id := fs.String("id", "", "ID of the person to delete")
	if err := parse(fs, args); err != nil {
		return err
	}
	kind, err := parseKind(fs, *kindStr)
	if err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}

	deleted, err := cli.app.People.Delete(kind, *id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.Wrapf(person.ErrNotFound, "%s %s", kind, *id)
	}
	cli.printf("deleted %s %s\n", kind, *id)
	return nil
}
