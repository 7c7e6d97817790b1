package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"product_draft_studio/registry"
)

func newTasksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Track generation tasks",
	}

	var search, status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.regs().Tasks.Query(cmd.Context(), search, status)
			if err != nil {
				return err
			}
			return a.printTasks(items)
		},
	}
	list.Flags().StringVarP(&search, "query", "q", "", "case-insensitive search over name and description")
	list.Flags().StringVarP(&status, "status", "s", registry.FilterAll, "all, pending, processing, completed or failed")

	var in registry.NewTask
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a pending task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.regs().Tasks.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.printTask(t, true)
		},
	}
	add.Flags().StringVar(&in.Name, "name", "", "task name (default 新任务-<date>)")
	add.Flags().StringVar(&in.Description, "description", "", "task description")
	add.Flags().IntVar(&in.ProductCount, "count", 0, "number of products")

	var name, desc string
	var count int
	edit := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a task's name, description or product count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var e registry.TaskEdit
			if cmd.Flags().Changed("name") {
				e.Name = &name
			}
			if cmd.Flags().Changed("description") {
				e.Description = &desc
			}
			if cmd.Flags().Changed("count") {
				e.ProductCount = &count
			}
			t, found, err := a.regs().Tasks.Edit(cmd.Context(), args[0], e)
			if err != nil {
				return err
			}
			return a.printTask(t, found)
		},
	}
	edit.Flags().StringVar(&name, "name", "", "new name")
	edit.Flags().StringVar(&desc, "description", "", "new description")
	edit.Flags().IntVar(&count, "count", 0, "new product count")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.confirm("确定要删除任务 " + args[0] + " 吗？") {
				return nil
			}
			removed, err := a.regs().Tasks.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if removed {
				a.printf("已删除 %s\n", args[0])
			} else {
				a.printf("未找到任务 %s\n", args[0])
			}
			return nil
		},
	}

	cmd.AddCommand(list, add, edit, del,
		transitionCmd(a, "start", "Move a pending task to processing", (*registry.Tasks).Start),
		transitionCmd(a, "pause", "Move a processing task back to pending", (*registry.Tasks).Pause),
		transitionCmd(a, "complete", "Mark a task completed", (*registry.Tasks).Complete),
		transitionCmd(a, "fail", "Mark a task failed", (*registry.Tasks).Fail),
	)
	return cmd
}

type transitionFunc func(*registry.Tasks, context.Context, string) (registry.Task, bool, error)

func transitionCmd(a *app, use, short string, fn transitionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, found, err := fn(a.regs().Tasks, cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printTask(t, found)
		},
	}
}
